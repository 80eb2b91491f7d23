package service

import "school_edu_backend/internal/model"

// batchPlan 一次出题的结果：题库下标（按展示顺序）与推进后的游标。
// Wrapped 表示本批取到了题库末尾，即完成了一轮
type batchPlan struct {
	Start   int
	Indexes []int
	Next    int
	Wrapped bool
}

// planStartBatch 新会话从进度游标开始取一批。
// 游标越界视为完成一轮，从 0 重新开始；本批恰好取到末尾时游标回到 0。
func planStartBatch(total, cursor, size int) batchPlan {
	start := cursor
	if start >= total || start < 0 {
		start = 0
	}
	end := start + size
	if end > total {
		end = total
	}

	plan := batchPlan{Start: start, Indexes: make([]int, 0, end-start)}
	for i := start; i < end; i++ {
		plan.Indexes = append(plan.Indexes, i)
	}
	if end >= total {
		plan.Next = 0
		plan.Wrapped = true
	} else {
		plan.Next = end
	}
	return plan
}

// planNextBatch 已有会话继续取下一批。
// 候选池为 [start, total)，不足一批且 start > 0 时拼接 [0, start) 回绕补足。
// 调用方保证 total > 0。
func planNextBatch(total, cursor, size int) batchPlan {
	start := cursor
	if start >= total || start < 0 {
		start = 0
	}

	pool := make([]int, 0, total)
	for i := start; i < total; i++ {
		pool = append(pool, i)
	}
	if len(pool) < size && start > 0 {
		for i := 0; i < start; i++ {
			pool = append(pool, i)
		}
	}
	if len(pool) > size {
		pool = pool[:size]
	}

	return batchPlan{
		Start:   start,
		Indexes: pool,
		Next:    (start + len(pool)) % total,
		Wrapped: start+len(pool) >= total,
	}
}

// pick 按计划从题库中取题
func (p batchPlan) pick(corpus []model.MCQQuestion) []model.MCQQuestion {
	out := make([]model.MCQQuestion, 0, len(p.Indexes))
	for _, i := range p.Indexes {
		out = append(out, corpus[i])
	}
	return out
}

// remaining 本轮剩余题数
func remaining(total, next int) int {
	return total - next
}

// tally 仅按已作答（含跳过）的记录统计结果
func tally(rows []model.MCQSessionQuestion) (correct, incorrect, skipped int) {
	for _, r := range rows {
		if r.AnsweredAt == nil {
			continue
		}
		if r.SelectedAnswer == nil {
			skipped++
		}
		if r.IsCorrect != nil {
			if *r.IsCorrect {
				correct++
			} else {
				incorrect++
			}
		}
	}
	return correct, incorrect, skipped
}

// scorePercent 正确率百分比，无有效作答时为 0
func scorePercent(correct, incorrect int) float64 {
	answered := correct + incorrect
	if answered == 0 {
		return 0
	}
	return float64(correct) / float64(answered) * 100
}

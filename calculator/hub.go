package calculator

import (
	"context"

	"fuelpin/model"
)

// 计算与推送之间的通道，计算结束时 Reports 被关闭
type CalcHub struct {
	Reports chan model.StepReport
}

func NewCalcHub() *CalcHub {
	return &CalcHub{
		Reports: make(chan model.StepReport, 10),
	}
}

// 推送一个燃耗步结果，没有人接收时随 ctx 取消返回
func (ch *CalcHub) PushReport(ctx context.Context, r model.StepReport) error {
	select {
	case ch.Reports <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (ch *CalcHub) close() {
	close(ch.Reports)
}

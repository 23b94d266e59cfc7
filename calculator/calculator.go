package calculator

import "context"

// calculator 的接口定义

type Calculator interface {
	// 获取CalcHub
	GetCalcHub() *CalcHub

	// 运行完整的燃耗序列，每个状态点推送一个结果
	// 只在两个燃耗步之间检查 ctx
	Run(ctx context.Context) error
}

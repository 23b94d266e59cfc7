package pin

import "errors"

// 所有错误都包装下面之一，调用方用 errors.Is 判断
//   - ErrConfig: 半径顺序、环数、时间步长、归一化因子等输入错误
//   - ErrSequence: 调用顺序错误，例如截面未建好就建栅元、校正步之前没有预估步
//   - ErrRange: 数值越界，例如 Dancoff 修正不在 [0, 1] 内，或步序号越界
var (
	ErrConfig   = errors.New("invalid configuration")
	ErrSequence = errors.New("out of sequence")
	ErrRange    = errors.New("out of range")
)

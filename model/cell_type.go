package model

import (
	"fmt"
	"math"
	"strings"
)

// 栅元的切分方式
type CellType int

const (
	Full CellType = iota // 完整栅元
	XN                   // 沿 x 切半，保留 x 负方向
	XP                   // 沿 x 切半，保留 x 正方向
	YN                   // 沿 y 切半，保留 y 负方向
	YP                   // 沿 y 切半，保留 y 正方向
	I                    // 第一象限
	II                   // 第二象限
	III                  // 第三象限
	IV                   // 第四象限
)

type split struct {
	name      string
	divisions int // 每个径向区的角向划分数
	// 栅元宽度是否容纳包壳
	check func(dx, dy, rc float64) error
	// 额外慢化剂环半径，ok=false 表示放不下
	moderatorRing func(dx, dy, rc float64) (r float64, ok bool)
}

var splits = [...]split{
	Full: {"full", 8, checkFull, ringFull},
	XN:   {"xn", 4, checkHalfX, ringHalfX},
	XP:   {"xp", 4, checkHalfX, ringHalfX},
	YN:   {"yn", 4, checkHalfY, ringHalfY},
	YP:   {"yp", 4, checkHalfY, ringHalfY},
	I:    {"i", 2, checkQuarter, ringQuarter},
	II:   {"ii", 2, checkQuarter, ringQuarter},
	III:  {"iii", 2, checkQuarter, ringQuarter},
	IV:   {"iv", 2, checkQuarter, ringQuarter},
}

func ParseCellType(s string) (CellType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, sp := range splits {
		if sp.name == s {
			return CellType(t), nil
		}
	}
	return Full, fmt.Errorf("unknown cell type %q", s)
}

func (t CellType) Valid() bool {
	return t >= Full && int(t) < len(splits)
}

func (t CellType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("CellType(%d)", int(t))
	}
	return splits[t].name
}

// 角向划分数：完整栅元 8，半栅元 4，四分之一栅元 2
func (t CellType) AngularDivisions() int {
	return splits[t].divisions
}

// 栅元所占整圆的比例，每个角向区固定为 45 度
func (t CellType) Fraction() float64 {
	return float64(splits[t].divisions) / 8.0
}

// 检查栅元宽度 dx, dy 是否能容纳半径为 rc 的包壳
func (t CellType) CheckWidths(dx, dy, rc float64) error {
	if !t.Valid() {
		return fmt.Errorf("invalid cell type %d", int(t))
	}
	return splits[t].check(dx, dy, rc)
}

// 在包壳外可以追加的慢化剂环半径
func (t CellType) ModeratorRing(dx, dy, rc float64) (float64, bool) {
	return splits[t].moderatorRing(dx, dy, rc)
}

func checkFull(dx, dy, rc float64) error {
	if dx < 2.0*rc {
		return fmt.Errorf("cell x width %g must be >= clad diameter %g", dx, 2.0*rc)
	}
	if dy < 2.0*rc {
		return fmt.Errorf("cell y width %g must be >= clad diameter %g", dy, 2.0*rc)
	}
	return nil
}

func checkHalfX(dx, dy, rc float64) error {
	if dx < rc {
		return fmt.Errorf("cell x width %g must be >= clad radius %g", dx, rc)
	}
	if dy < 2.0*rc {
		return fmt.Errorf("cell y width %g must be >= clad diameter %g", dy, 2.0*rc)
	}
	return nil
}

func checkHalfY(dx, dy, rc float64) error {
	if dy < rc {
		return fmt.Errorf("cell y width %g must be >= clad radius %g", dy, rc)
	}
	if dx < 2.0*rc {
		return fmt.Errorf("cell x width %g must be >= clad diameter %g", dx, 2.0*rc)
	}
	return nil
}

func checkQuarter(dx, dy, rc float64) error {
	if dx < rc {
		return fmt.Errorf("cell x width %g must be >= clad radius %g", dx, rc)
	}
	if dy < rc {
		return fmt.Errorf("cell y width %g must be >= clad radius %g", dy, rc)
	}
	return nil
}

func ringFull(dx, dy, rc float64) (float64, bool) {
	if math.Min(dx, dy) > 2.0*rc {
		return 0.5 * math.Min(dx, dy), true
	}
	return 0, false
}

func ringHalfX(dx, dy, rc float64) (float64, bool) {
	if dx > rc && dy > 2.0*rc {
		return math.Min(dx, 0.5*dy), true
	}
	return 0, false
}

func ringHalfY(dx, dy, rc float64) (float64, bool) {
	if dy > rc && dx > 2.0*rc {
		return math.Min(0.5*dx, dy), true
	}
	return 0, false
}

func ringQuarter(dx, dy, rc float64) (float64, bool) {
	if dx > rc && dy > rc {
		return math.Min(dx, dy), true
	}
	return 0, false
}

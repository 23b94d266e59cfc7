/**
 *
 * 按时间步追加的版本记录，每个燃耗步一个元素，下标 0 为初始装载
 * 只允许在尾部追加或替换尾部元素，历史元素一旦写入就不再修改
 *
 */

package history

import "fmt"

type Log[T any] struct {
	arr []T
}

func NewLog[T any](initial T) *Log[T] {
	return &Log[T]{arr: []T{initial}}
}

func (l *Log[T]) Len() int {
	return len(l.arr)
}

// 在尾部追加一个元素
func (l *Log[T]) Append(v T) {
	l.arr = append(l.arr, v)
}

// 最新的元素
func (l *Log[T]) Tip() T {
	return l.arr[len(l.arr)-1]
}

// 替换最新的元素，返回被替换的元素
func (l *Log[T]) ReplaceTip(v T) T {
	old := l.arr[len(l.arr)-1]
	l.arr[len(l.arr)-1] = v
	return old
}

// 从尾部往回数第 k 个元素，Back(0) == Tip()
func (l *Log[T]) Back(k int) (T, error) {
	var zero T
	if k < 0 || k >= len(l.arr) {
		return zero, fmt.Errorf("history: %d steps back is out of range, log has %d entries", k, len(l.arr))
	}
	return l.arr[len(l.arr)-1-k], nil
}

func (l *Log[T]) At(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(l.arr) {
		return zero, fmt.Errorf("history: index %d is out of range, log has %d entries", i, len(l.arr))
	}
	return l.arr[i], nil
}

// 正向遍历
func (l *Log[T]) Traverse(f func(i int, v T)) {
	for i, v := range l.arr {
		f(i, v)
	}
}

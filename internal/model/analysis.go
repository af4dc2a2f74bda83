package model

import (
	"encoding/json"
	"fmt"
)

// State 分析字段的计算状态
type State int

const (
	StateComputed    State = iota
	StatePending           // 尚未除息
	StateHistorical        // 截止日前的历史资料，不计算
	StateUnavailable       // 找不到除息前价格
	StateUnfilled          // 已除息但尚未填息
)

var stateLabels = map[State]string{
	StatePending:     "待除息資訊",
	StateHistorical:  "歷史資料",
	StateUnavailable: "無資料",
	StateUnfilled:    "未填息",
}

// Label 非计算状态对应的显示文字
func (s State) Label() string {
	return stateLabels[s]
}

// Field 带状态的分析值，只有 StateComputed 时 Value 有效
type Field[T any] struct {
	State State
	Value T
}

// Computed 构造已计算的值
func Computed[T any](v T) Field[T] {
	return Field[T]{State: StateComputed, Value: v}
}

// Marked 构造非计算状态的值
func Marked[T any](s State) Field[T] {
	return Field[T]{State: s}
}

func (f Field[T]) IsComputed() bool { return f.State == StateComputed }

// Get 返回值以及是否已计算
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.State == StateComputed
}

func (f Field[T]) String() string {
	if f.State != StateComputed {
		return f.State.Label()
	}
	return fmt.Sprint(f.Value)
}

// MarshalJSON 已计算时输出原值，否则输出状态文字，保持前端既有格式
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.State != StateComputed {
		return json.Marshal(f.State.Label())
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON 状态文字还原为对应状态
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		for s, l := range stateLabels {
			if l == label {
				*f = Field[T]{State: s}
				return nil
			}
		}
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Computed(v)
	return nil
}

// FillAnalysisRecord 填息分析结果，不持久化
type FillAnalysisRecord struct {
	DividendRecord
	PreExDate      Field[string]  `json:"preExDate"`
	PricePreEx     Field[float64] `json:"pricePreEx"`
	PriceReference Field[float64] `json:"priceReference"`
	FillDate       Field[string]  `json:"fillDate"`
	FillPrice      Field[float64] `json:"fillPrice"`
	IsFilled       bool           `json:"isFilled"`
	DaysToFill     Field[int]     `json:"daysToFill"`
}

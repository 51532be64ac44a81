package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Range 闭区间 [Min, Max]，YAML 中写作两元素序列：
//
//	blast: [120, 170]
//
// 单个标量表示固定值（Min == Max）。
type Range struct {
	Min float64
	Max float64
}

// UnmarshalYAML 实现 yaml.Unmarshaler
func (r *Range) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := value.Decode(&v); err != nil {
			return fmt.Errorf("line %d: invalid range value: %w", value.Line, err)
		}
		r.Min, r.Max = v, v
		return nil
	case yaml.SequenceNode:
		var pair []float64
		if err := value.Decode(&pair); err != nil {
			return fmt.Errorf("line %d: invalid range: %w", value.Line, err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: range must have exactly 2 values, got %d", value.Line, len(pair))
		}
		r.Min, r.Max = pair[0], pair[1]
		return nil
	}
	return fmt.Errorf("line %d: range must be a scalar or [min, max]", value.Line)
}

// MarshalYAML 实现 yaml.Marshaler
func (r Range) MarshalYAML() (interface{}, error) {
	if r.Min == r.Max {
		return r.Min, nil
	}
	return []float64{r.Min, r.Max}, nil
}

// IsZero 区间是否为 [0, 0]（表示该型号不使用此属性）
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Valid 区间是否有序
func (r Range) Valid() bool {
	return r.Min <= r.Max
}

// Lerp 按比例 t ∈ [0,1] 在区间内插值
func (r Range) Lerp(t float64) float64 {
	return r.Min + (r.Max-r.Min)*t
}

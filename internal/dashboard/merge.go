package dashboard

// Identifiable 可按 ID 合并的记录
type Identifiable interface {
	GetID() string
}

// MergeByID 存在相同 ID 时替换该项，否则追加。返回新切片
func MergeByID[T Identifiable](list []T, item T) []T {
	out := make([]T, len(list), len(list)+1)
	copy(out, list)
	for i := range out {
		if out[i].GetID() == item.GetID() {
			out[i] = item
			return out
		}
	}
	return append(out, item)
}

// PrependUnique ID 已存在时保持不变，否则插入到最前面。返回新切片
func PrependUnique[T Identifiable](list []T, item T) []T {
	for i := range list {
		if list[i].GetID() == item.GetID() {
			return clone(list)
		}
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	return append(out, list...)
}

func clone[T any](list []T) []T {
	if list == nil {
		return nil
	}
	return append(make([]T, 0, len(list)), list...)
}

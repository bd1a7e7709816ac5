package model

// Identified 可以解析出主键的实体
type Identified interface {
	RefID() uint
}

// Ref 关联字段：要么只有 ID，要么是已展开的实体
type Ref[T Identified] struct {
	id    uint
	value *T
}

func IDRef[T Identified](id uint) Ref[T] {
	return Ref[T]{id: id}
}

func PopulatedRef[T Identified](v *T) Ref[T] {
	if v == nil {
		return Ref[T]{}
	}
	return Ref[T]{id: (*v).RefID(), value: v}
}

// RefOf 由外键和预加载指针组成关联；预加载优先
func RefOf[T Identified](id *uint, v *T) Ref[T] {
	if v != nil {
		return PopulatedRef(v)
	}
	if id != nil {
		return IDRef[T](*id)
	}
	return Ref[T]{}
}

func (r Ref[T]) ID() uint {
	return r.id
}

func (r Ref[T]) Populated() (*T, bool) {
	return r.value, r.value != nil
}

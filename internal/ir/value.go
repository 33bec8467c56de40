package ir

// IRValue is a sealed interface for the values overload identity is hashed
// from.
type IRValue interface {
	irValue()
}

type (
	IRString string
	IRInt    int64
	IRBool   bool
	IRArray  []IRValue
	// IRObject is unordered; encoders iterate it with SortedKeys.
	IRObject map[string]IRValue
)

func (IRString) irValue() {}
func (IRInt) irValue()    {}
func (IRBool) irValue()   {}
func (IRArray) irValue()  {}
func (IRObject) irValue() {}

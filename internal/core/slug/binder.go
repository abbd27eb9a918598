package slug

// Field is a text input the binder reads from or writes to.
type Field interface {
	Value() string
	SetValue(string)
}

// TextField is an in-memory Field.
type TextField struct {
	value string
}

// NewTextField creates a field holding the given value.
func NewTextField(value string) *TextField {
	return &TextField{value: value}
}

func (f *TextField) Value() string     { return f.value }
func (f *TextField) SetValue(v string) { f.value = v }

// Binder keeps a slug field in step with a title field. A binder owns
// exactly one source/target pair.
type Binder struct {
	source Field
	target Field
	derive func(string) string
}

// Bind binds target to source. A nil derive uses Derive.
func Bind(source, target Field, derive func(string) string) *Binder {
	if derive == nil {
		derive = Derive
	}
	return &Binder{source: source, target: target, derive: derive}
}

// KeyUp recomputes the slug from the source's current value and
// overwrites the target with it. The new slug is returned.
func (b *Binder) KeyUp() string {
	s := b.derive(b.source.Value())
	b.target.SetValue(s)
	return s
}

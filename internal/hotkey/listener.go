package hotkey

import (
	"context"
	"fmt"

	"golang.design/x/hotkey"
)

// Binding is one registered global hotkey.
type Binding struct {
	spec string
	hk   *hotkey.Hotkey
}

// Bind registers spec as a global hotkey. Registration fails when the OS
// denies input monitoring or the combination is taken.
func Bind(spec string) (*Binding, error) {
	mods, key, err := Parse(spec)
	if err != nil {
		return nil, err
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("register hotkey %q: %w", spec, err)
	}

	return &Binding{spec: spec, hk: hk}, nil
}

func (b *Binding) Spec() string {
	return b.spec
}

// Listen forwards press and release events until ctx is done. Key repeat can
// deliver several press events while the key is held; callers must treat a
// press during an active recording as a no-op.
func (b *Binding) Listen(ctx context.Context, onPress, onRelease func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.hk.Keydown():
			onPress()
		case <-b.hk.Keyup():
			onRelease()
		}
	}
}

func (b *Binding) Close() error {
	return b.hk.Unregister()
}

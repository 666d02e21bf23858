package hotkey

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Combination is a parsed global hotkey chord.
type Combination struct {
	label string
	keys  []comboKey
}

type comboKey struct {
	name     string
	rawcodes []uint16
}

func (c Combination) String() string { return c.label }

// Parse converts a spec like "Alt+A" or "Ctrl+Shift+F2" into a
// Combination. Every token must map to known rawcodes.
func Parse(spec string) (Combination, error) {
	names := parseHotkey(spec)
	if len(names) == 0 {
		return Combination{}, fmt.Errorf("empty hotkey spec %q", spec)
	}

	combo := Combination{label: spec}
	for _, name := range names {
		raw := keyNameToRawcodes(name)
		if len(raw) == 0 {
			return Combination{}, fmt.Errorf("unknown key %q in hotkey %q", name, spec)
		}
		combo.keys = append(combo.keys, comboKey{name: name, rawcodes: raw})
	}
	return combo, nil
}

// tracker follows which chord members are held. The chord fires on the
// key-down completing it and then rearms, so a held chord does not
// retrigger on key repeat.
type tracker struct {
	keys    []comboKey
	pressed []bool
}

func newTracker(c Combination) *tracker {
	return &tracker{keys: c.keys, pressed: make([]bool, len(c.keys))}
}

func (t *tracker) keyDown(rawcode uint16) bool {
	matched := false
	for i, k := range t.keys {
		if hasRawcode(k.rawcodes, rawcode) {
			t.pressed[i] = true
			matched = true
		}
	}
	if !matched {
		return false
	}
	for _, p := range t.pressed {
		if !p {
			return false
		}
	}
	for i := range t.pressed {
		t.pressed[i] = false
	}
	return true
}

func (t *tracker) keyUp(rawcode uint16) {
	for i, k := range t.keys {
		if hasRawcode(k.rawcodes, rawcode) {
			t.pressed[i] = false
		}
	}
}

func hasRawcode(raw []uint16, rc uint16) bool {
	for _, r := range raw {
		if r == rc {
			return true
		}
	}
	return false
}

// Manager owns the OS-global keyboard hook.
type Manager struct {
	stopOnce sync.Once
	stop     chan struct{}
}

// Listen starts the global hook and fires callback each time the
// combination completes. The callback runs on the hook goroutine; keep
// it short and post real work through the event router.
func Listen(combo Combination, callback func()) *Manager {
	m := &Manager{stop: make(chan struct{})}
	go m.run(combo, callback)
	return m
}

func (m *Manager) run(combo Combination, callback func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("hotkey: panic in hook goroutine: %v", r)
		}
	}()

	evChan := gohook.Start()
	if evChan == nil {
		log.Printf("hotkey: gohook.Start returned no channel")
		return
	}
	log.Printf("hotkey: listening for %s", combo)

	tr := newTracker(combo)
	for {
		select {
		case <-m.stop:
			gohook.End()
			return
		case ev, ok := <-evChan:
			if !ok {
				log.Printf("hotkey: event channel closed")
				return
			}
			switch ev.Kind {
			case gohook.KeyDown:
				if tr.keyDown(ev.Rawcode) {
					log.Printf("hotkey: %s fired", combo)
					if callback != nil {
						callback()
					}
				}
			case gohook.KeyUp:
				tr.keyUp(ev.Rawcode)
			}
		}
	}
}

// Stop tears down the hook. Safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// parseHotkey normalizes "Ctrl+Alt+Q" into lowercase key names.
func parseHotkey(spec string) []string {
	parts := strings.Split(strings.ToLower(spec), "+")
	var keys []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch part {
		case "win", "cmd", "super":
			keys = append(keys, "cmd")
		default:
			keys = append(keys, part)
		}
	}
	return keys
}

// keyNameToRawcodes maps a key name to the Windows virtual-key codes
// that satisfy it; modifiers list both left and right variants.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))

	switch keyName {
	case "ctrl":
		return []uint16{162, 163} // VK_LCONTROL, VK_RCONTROL
	case "alt":
		return []uint16{164, 165} // VK_LMENU, VK_RMENU
	case "shift":
		return []uint16{160, 161} // VK_LSHIFT, VK_RSHIFT
	case "win", "cmd", "super":
		return []uint16{91, 92} // VK_LWIN, VK_RWIN
	case "space":
		return []uint16{32}
	case "enter", "return":
		return []uint16{13}
	case "esc", "escape":
		return []uint16{27}
	case "tab":
		return []uint16{9}
	case "backspace":
		return []uint16{8}
	case "delete", "del":
		return []uint16{46}
	case "insert", "ins":
		return []uint16{45}
	case "home":
		return []uint16{36}
	case "end":
		return []uint16{35}
	case "pageup", "pgup":
		return []uint16{33}
	case "pagedown", "pgdn":
		return []uint16{34}
	case "left":
		return []uint16{37}
	case "up":
		return []uint16{38}
	case "right":
		return []uint16{39}
	case "down":
		return []uint16{40}
	}

	// Letters and digits sit directly on their VK codes.
	if len(keyName) == 1 {
		c := keyName[0]
		if c >= 'a' && c <= 'z' {
			return []uint16{uint16(c-'a') + 65}
		}
		if c >= '0' && c <= '9' {
			return []uint16{uint16(c-'0') + 48}
		}
	}

	// F1..F24 are contiguous from VK_F1 (112).
	if strings.HasPrefix(keyName, "f") {
		if n, err := strconv.Atoi(keyName[1:]); err == nil && n >= 1 && n <= 24 {
			return []uint16{uint16(111 + n)}
		}
	}

	return nil
}

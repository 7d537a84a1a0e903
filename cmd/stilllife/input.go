package main

import (
	"github.com/Carmen-Shannon/stilllife/common"
	"github.com/Carmen-Shannon/stilllife/engine"
	"github.com/Carmen-Shannon/stilllife/engine/camera"
	"github.com/Carmen-Shannon/stilllife/engine/window"
)

// keyBindings maps held keys to camera moves applied once per tick.
type keyBindings struct {
	held map[uint32]bool
}

func newKeyBindings() *keyBindings {
	return &keyBindings{held: make(map[uint32]bool)}
}

func (k *keyBindings) down(code uint32) { k.held[code] = true }
func (k *keyBindings) up(code uint32)   { k.held[code] = false }

// apply moves the camera for every held key.
func (k *keyBindings) apply(cc camera.CameraController) {
	if k.held[common.KeyA] || k.held[common.KeyLeft] {
		cc.OrbitLeft()
	}
	if k.held[common.KeyD] || k.held[common.KeyRight] {
		cc.OrbitRight()
	}
	if k.held[common.KeyUp] {
		cc.OrbitUp()
	}
	if k.held[common.KeyDown] {
		cc.OrbitDown()
	}
	if k.held[common.KeyW] {
		cc.PanForward(1)
	}
	if k.held[common.KeyS] {
		cc.PanForward(-1)
	}
	if k.held[common.KeyE] {
		cc.PanUp(1)
	}
	if k.held[common.KeyQ] {
		cc.PanUp(-1)
	}
}

// bindInput routes window input to the camera controller.
func bindInput(w window.Window, eng engine.Engine, cc camera.CameraController) {
	keys := newKeyBindings()
	w.SetKeyDownCallback(keys.down)
	w.SetKeyUpCallback(keys.up)
	w.SetScrollCallback(cc.Zoom)
	w.SetDragCallback(cc.OrbitDrag)
	eng.SetTickCallback(func(float32) { keys.apply(cc) })
}

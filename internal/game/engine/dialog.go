package engine

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/game/world"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

type dialogState struct {
	target *sim.Object
	tree   *world.DialogueSpec
	node   *world.DialogueNode
}

func (e *Engine) startDialog(target *sim.Object, tree *world.DialogueSpec) {
	node, ok := tree.Node(tree.Start)
	if !ok {
		e.display("%s doesn't have anything to say.", target.Name)
		return
	}
	e.dialog = &dialogState{target: target, tree: tree, node: node}
	e.logger.Debug("dialogue started", zap.Int("npc", target.ID), zap.String("node", node.ID))
}

// DialogTarget implements sim.Dialog.
func (e *Engine) DialogTarget() *sim.Object {
	if e.dialog == nil {
		return nil
	}
	return e.dialog.target
}

// ReplyText implements sim.Dialog.
func (e *Engine) ReplyText() string {
	if e.dialog == nil {
		return ""
	}
	return e.dialog.node.Reply
}

// Options implements sim.Dialog.
func (e *Engine) Options() []string {
	if e.dialog == nil {
		return nil
	}
	opts := make([]string, len(e.dialog.node.Options))
	for i, opt := range e.dialog.node.Options {
		opts[i] = opt.Text
	}
	return opts
}

// SelectOption implements sim.Dialog. An option without a next node ends the
// conversation.
func (e *Engine) SelectOption(index int) error {
	if e.dialog == nil {
		return rejected("not in dialogue")
	}
	if index < 0 || index >= len(e.dialog.node.Options) {
		return rejected("option out of range")
	}
	opt := e.dialog.node.Options[index]
	if opt.Barter {
		e.barter()
	}
	if opt.Next == "" {
		e.dialog = nil
		return nil
	}
	next, ok := e.dialog.tree.Node(opt.Next)
	if !ok {
		e.dialog = nil
		return rejected("dialogue node missing")
	}
	e.dialog.node = next
	return nil
}

func (e *Engine) barter() {
	e.display("%s shows you what they have to trade.", e.dialog.target.Name)
}

func (e *Engine) dialogKey(code int) {
	switch {
	case code == sim.KeyLowercaseB:
		e.barter()
	case code == sim.KeyEscape:
		e.dialog = nil
	case code >= '1' && code <= '9':
		_ = e.SelectOption(code - '1')
	}
}

package query

import (
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// maxContainerDepth bounds the nested-container search.
const maxContainerDepth = 64

// FindWorldObject returns the object with id on any elevation, or nil.
func FindWorldObject(w sim.World, id int) *sim.Object {
	for _, obj := range w.Objects() {
		if obj.ID == id {
			return obj
		}
	}
	return nil
}

// FindInventoryObject searches owner's inventory for id, descending into
// items whose prototype is a container.
//
// Postcondition: Returns nil when not found or when nesting exceeds
// maxContainerDepth.
func FindInventoryObject(w sim.World, owner *sim.Object, id int) *sim.Object {
	if owner == nil {
		return nil
	}
	type frame struct {
		owner *sim.Object
		depth int
	}
	stack := []frame{{owner: owner}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, entry := range top.owner.Inventory {
			item := entry.Item
			if item == nil {
				continue
			}
			if item.ID == id {
				return item
			}
			if top.depth+1 < maxContainerDepth && isContainerItem(w, item) {
				stack = append(stack, frame{owner: item, depth: top.depth + 1})
			}
		}
	}
	return nil
}

// FindAnyObject looks for id in the world first, then in the avatar's
// inventory.
func FindAnyObject(w sim.World, id int) *sim.Object {
	if obj := FindWorldObject(w, id); obj != nil {
		return obj
	}
	return FindInventoryObject(w, w.Player(), id)
}

func isContainerItem(w sim.World, item *sim.Object) bool {
	if item.Type() != sim.TypeItem {
		return false
	}
	proto, ok := w.Proto(item.PID)
	return ok && proto.ItemType == sim.ItemContainer
}

// vi: sw=4 ts=4:

/*

	Mnemonic:	object
	Abstract:	The root of the object graph (spec §3, §4.A): every core entity is
				named, reports a full path, and lives under exactly one owner at
				any instant. Soft_owner is the container kind modules and channels
				embed -- children can be taken away without the owner fighting for
				them, which is what lets "created inside a module belongs to the
				module unless someone else claims it" hold without extra bookkeeping
				at every call site.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels
*/

package gizmos

import (
	"fmt"
	"strings"
)

/*
	Object is the capability set every core entity implements: a printable
	name, a dotted full path built by walking owners, a one-line and a
	detailed description, and a visitor over direct children. Concrete
	types (Message, Module, Channel, Gate, Parameter...) satisfy this
	alongside their own behaviour.
*/
type Object interface {
	Name() string
	SetName(name string)
	FullName() string
	FullPath() string
	Owner() Owner
	Info() string   // one-line description
	Detail() string // multi-line description
	Visit(fn func(Object))
}

/*
	Owner is anything that can hold owned objects and answer "what's my
	full path" for a child to chain off of. Soft_owner and Module both
	satisfy it.
*/
type Owner interface {
	Object
	take(obj Owned)
	drop(obj Owned)
}

/*
	Owned is the half of Object that deals with ownership transfer: every
	owned object knows its current owner and can be moved.
*/
type Owned interface {
	Object
	setOwner(o Owner)
}

/*
	Base is the common embeddable implementation of Object/Owned. Every
	concrete owned type in this repo embeds Base (by value) rather than
	re-implementing naming and ownership by hand.
*/
type Base struct {
	name  string
	owner Owner
}

func (b *Base) Name() string { return b.name }

func (b *Base) SetName(name string) { b.name = name }

func (b *Base) FullName() string { return b.name }

/*
	FullPath joins ancestor names with '.' from the root down to this
	object, per spec §3's "Full path" definition.
*/
func (b *Base) FullPath() string {
	if b.owner == nil {
		return b.name
	}
	parent := b.owner.FullPath()
	if parent == "" {
		return b.name
	}
	return parent + "." + b.name
}

func (b *Base) Owner() Owner { return b.owner }

func (b *Base) setOwner(o Owner) { b.owner = o }

func (b *Base) Info() string { return b.name }

func (b *Base) Detail() string { return fmt.Sprintf("%s (%s)", b.FullPath(), b.name) }

func (b *Base) Visit(fn func(Object)) {}

/*
	Soft_owner is a container owner holding a dynamically grown slice of
	owned children. Its distinguishing property (spec §3/§4.A): when a
	child is transferred away, Soft_owner merely records the departure --
	it never fights for the object, never panics, never tries to delete
	something someone else now owns.
*/
type Soft_owner struct {
	Base
	children []Owned

	// GCOwnedObjects opts this soft-owner into deleting remaining children
	// at destruction time. Default false, matching spec §4.A's "safe
	// default": a soft-owner holding subobjects or array elements must not
	// naively delete them, only drop the back-reference.
	GCOwnedObjects bool
}

/*
	Mk_soft_owner constructs a soft-owner with the given display name.
*/
func Mk_soft_owner(name string) *Soft_owner {
	so := &Soft_owner{}
	so.name = name
	so.children = make([]Owned, 0, 8)
	return so
}

/*
	Take inserts obj under this soft-owner. Asserts there is no prior
	owner claim still pending -- a caller must Drop from the old owner
	first (spec §4.A: "a take moves an object under a new owner").
*/
func (so *Soft_owner) Take(obj Owned) {
	so.take(obj)
}

func (so *Soft_owner) take(obj Owned) {
	if obj.Owner() != nil {
		panic(New_error(InternalError, "take: %q is still owned by %q", obj.Name(), obj.Owner().FullPath()))
	}
	obj.setOwner(so)
	so.children = append(so.children, obj)
}

/*
	TakeAs is Take, but records owner (rather than this Soft_owner itself)
	as obj's owner. Needed whenever a concrete type embeds Soft_owner by
	value: the promoted Take would otherwise stamp obj's owner as the
	embedded *Soft_owner field, not the enclosing type, and any later
	owner-chain walk that type-asserts back to the concrete type (e.g. a
	Module resolving a parameter up its parent chain) would fail to match.
*/
func (so *Soft_owner) TakeAs(obj Owned, owner Owner) {
	obj.setOwner(owner)
	so.children = append(so.children, obj)
}

/*
	Drop releases obj to a caller-taken state: it is removed from this
	soft-owner's child list but not deleted, and its owner pointer is
	cleared.
*/
func (so *Soft_owner) Drop(obj Owned) {
	so.drop(obj)
}

func (so *Soft_owner) drop(obj Owned) {
	for i, c := range so.children {
		if c == obj {
			so.children = append(so.children[:i], so.children[i+1:]...)
			obj.setOwner(nil)
			return
		}
	}
}

/*
	YieldOwnership removes obj from this soft-owner's child list and
	clears its owner pointer, exactly as Drop does; newOwner is not used.
	Take does not call it, so a transfer to a new owner is a Drop on the
	old owner followed by Take on the new one.
*/
func (so *Soft_owner) YieldOwnership(obj Owned, newOwner Owner) {
	so.drop(obj)
}

/*
	Child_count and Child_at give read-only access for visitors and
	destructors, in insertion order (spec §3: "submodule list (insertion
	order preserved)" generalizes to every soft-owner).
*/
func (so *Soft_owner) Child_count() int { return len(so.children) }

func (so *Soft_owner) Child_at(i int) Owned { return so.children[i] }

/*
	Find_child_by_name returns the first child whose Name() matches;
	duplicate names among siblings are allowed (spec §4.A), so this
	always returns the first match in insertion order.
*/
func (so *Soft_owner) Find_child_by_name(name string) Owned {
	for _, c := range so.children {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func (so *Soft_owner) Visit(fn func(Object)) {
	for _, c := range so.children {
		fn(c)
		c.Visit(fn)
	}
}

/*
	Destroy runs the opt-in garbage collection behaviour: if GCOwnedObjects
	is set, every remaining child is asked to destroy itself (if it
	supports it) before the child slice is cleared; otherwise only the
	back-references are dropped, per spec §4.A.
*/
func (so *Soft_owner) Destroy() {
	if so.GCOwnedObjects {
		for _, c := range so.children {
			if d, ok := c.(interface{ Destroy() }); ok {
				d.Destroy()
			}
		}
	} else {
		for _, c := range so.children {
			c.setOwner(nil)
		}
	}
	so.children = so.children[:0]
}

func (so *Soft_owner) Info() string {
	return fmt.Sprintf("%s [%d children]", so.FullPath(), len(so.children))
}

func (so *Soft_owner) Detail() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d children\n", so.FullPath(), len(so.children))
	for _, c := range so.children {
		fmt.Fprintf(&sb, "  %s\n", c.Info())
	}
	return sb.String()
}

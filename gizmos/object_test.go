// vi: sw=4 ts=4:

package gizmos

import "testing"

func TestFullPath(t *testing.T) {
	root := Mk_soft_owner("root")
	child := Mk_soft_owner("child")
	root.Take(child)

	if got, want := child.FullPath(), "root.child"; got != want {
		t.Fatalf("FullPath() = %q, want %q", got, want)
	}
}

func TestSoftOwnerDropDoesNotDelete(t *testing.T) {
	root := Mk_soft_owner("root")
	child := Mk_soft_owner("child")
	root.Take(child)
	root.Drop(child)

	if root.Child_count() != 0 {
		t.Fatalf("expected root to have 0 children after drop, got %d", root.Child_count())
	}
	if child.Owner() != nil {
		t.Fatalf("expected dropped child to have nil owner")
	}
}

func TestDuplicateSiblingNamesAllowed(t *testing.T) {
	root := Mk_soft_owner("root")
	a := Mk_soft_owner("dup")
	b := Mk_soft_owner("dup")
	root.Take(a)
	root.Take(b)

	if root.Find_child_by_name("dup") != Owned(a) {
		t.Fatalf("expected lookup-by-name to return the first match")
	}
}

func TestGCOwnedObjectsOptIn(t *testing.T) {
	root := Mk_soft_owner("root")
	root.GCOwnedObjects = false
	child := Mk_soft_owner("child")
	root.Take(child)
	root.Destroy() // should not panic and should just clear back-references

	if root.Child_count() != 0 {
		t.Fatalf("expected children cleared after Destroy")
	}
}

package services

import (
	"github.com/studynet/studynet"
)

// Policy concentrates every access rule in one place, so handlers and
// services never re-derive them. All predicates are pure: they look only at
// the actor and the resources passed in.
type Policy struct{}

// CanAccessCollection: the owner, any collaborator and administrators can
// read and write a collection's content.
func (Policy) CanAccessCollection(u studynet.User, c studynet.Collection) bool {
	return u.ID == c.OwnerID || c.HasCollaborator(u.ID) || u.IsAdmin
}

// CanModifyCollection: renaming, deleting and collaborator management are
// reserved to the owner and administrators.
func (Policy) CanModifyCollection(u studynet.User, c studynet.Collection) bool {
	return u.ID == c.OwnerID || u.IsAdmin
}

// CanAccessHighlight: a highlight filed in a collection follows that
// collection's access rule; an unfiled one is visible to its creator only.
// Pass the zero Collection when the highlight is unfiled.
func (p Policy) CanAccessHighlight(u studynet.User, h studynet.Highlight, c studynet.Collection) bool {
	if h.CollectionID != 0 && c.ID == h.CollectionID {
		return p.CanAccessCollection(u, c)
	}
	return u.ID == h.OwnerID || u.IsAdmin
}

// CanModifyHighlight: only the creator and administrators may change or
// delete a highlight, wherever it is filed.
func (Policy) CanModifyHighlight(u studynet.User, h studynet.Highlight) bool {
	return u.ID == h.OwnerID || u.IsAdmin
}

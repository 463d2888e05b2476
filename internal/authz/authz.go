// Package authz holds the pure permission decisions for posts, comments and
// user moderation. Every function is total: any combination of inputs,
// including nil resources and absent identities, yields a decision.
package authz

import "codeshareforum/internal/entity"

// Identity is the opaque reference to a signed-in actor. A nil *Identity
// means "not signed in".
type Identity struct {
	ID string
}

// CanEditPost allows only the owner to edit. Admins do not gain edit rights
// over other users' posts.
func CanEditPost(post *entity.Post, ident *Identity) bool {
	if post == nil || ident == nil {
		return false
	}
	return post.AuthorID == ident.ID
}

// CanDeletePost allows the owner or any admin.
func CanDeletePost(post *entity.Post, ident *Identity, role entity.Role) bool {
	if post == nil || ident == nil {
		return false
	}
	return post.AuthorID == ident.ID || role == entity.RoleAdmin
}

// CanDeleteComment applies the delete-post rule against the comment's author.
func CanDeleteComment(comment *entity.Comment, ident *Identity, role entity.Role) bool {
	if comment == nil || ident == nil {
		return false
	}
	return comment.AuthorID == ident.ID || role == entity.RoleAdmin
}

// CanModerateUsers gates the user-management view.
func CanModerateUsers(role entity.Role) bool {
	return role == entity.RoleAdmin
}

// CanActOnUser hides block/unblock/delete for the acting admin's own row.
// The admin list must never expose moderation actions against self.
func CanActOnUser(target *entity.User, ident *Identity, role entity.Role) bool {
	if target == nil || ident == nil {
		return false
	}
	return role == entity.RoleAdmin && target.ID != ident.ID
}

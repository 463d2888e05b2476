// Package nav is the single-selection view-state machine that swaps between
// mutually exclusive screens. It is owned by the UI event loop and is not
// safe for concurrent use.
package nav

import (
	"codeshareforum/internal/authz"
	"codeshareforum/internal/entity"
)

type Screen string

const (
	ScreenHome       Screen = "home"
	ScreenLogin      Screen = "login"
	ScreenRegister   Screen = "register"
	ScreenCreate     Screen = "create"
	ScreenAdminUsers Screen = "adminUsers"
	ScreenProfile    Screen = "profile"
	ScreenNews       Screen = "news"
)

// Composer tracks the active screen plus the home screen's internal
// sub-state (an open post detail or an open post editor, post-id valued and
// mutually exclusive). The sub-state is keyed to a reset generation: every
// bump discards it, so no stale open-post state leaks back into the feed.
type Composer struct {
	screen        Screen
	profileUserID string

	resetGeneration uint64
	openPostID      string
	editingPostID   string
}

func NewComposer() *Composer {
	return &Composer{screen: ScreenHome}
}

func (c *Composer) Screen() Screen          { return c.screen }
func (c *Composer) ProfileUserID() string   { return c.profileUserID }
func (c *Composer) ResetGeneration() uint64 { return c.resetGeneration }
func (c *Composer) OpenPostID() string      { return c.openPostID }
func (c *Composer) EditingPostID() string   { return c.editingPostID }

// Navigate moves to a target screen, applying the guards. A guarded
// transition is a no-op, never a crash: the caller's screen stays put.
// Profile navigation goes through NavigateToProfile; Navigate(ScreenProfile)
// without a target id is ignored.
func (c *Composer) Navigate(target Screen, ident *authz.Identity, role entity.Role) bool {
	switch target {
	case ScreenCreate:
		if ident == nil {
			return false
		}
	case ScreenAdminUsers:
		if ident == nil || !authz.CanModerateUsers(role) {
			return false
		}
	case ScreenProfile:
		return false
	case ScreenHome:
		c.bumpReset()
	}

	c.screen = target
	return true
}

// NavigateToProfile opens a profile screen for the given user. An empty
// target id is ignored.
func (c *Composer) NavigateToProfile(userID string) bool {
	if userID == "" {
		return false
	}
	c.profileUserID = userID
	c.screen = ScreenProfile
	return true
}

// HandleSignedIn is invoked on every external sign-in completion: force the
// home screen and discard any open post or edit view.
func (c *Composer) HandleSignedIn() {
	c.bumpReset()
	c.screen = ScreenHome
}

// Back returns from a profile or post-detail view to home, bumping the
// reset generation so the feed view re-mounts clean.
func (c *Composer) Back() {
	c.bumpReset()
	c.screen = ScreenHome
}

// ToggleAuthScreen switches between login and register. From any other
// screen it lands on login.
func (c *Composer) ToggleAuthScreen() {
	if c.screen == ScreenLogin {
		c.screen = ScreenRegister
		return
	}
	c.screen = ScreenLogin
}

// OpenPost sets the home sub-state to viewing a post, closing any editor.
func (c *Composer) OpenPost(postID string) {
	if postID == "" {
		return
	}
	c.openPostID = postID
	c.editingPostID = ""
}

// EditPost sets the home sub-state to editing a post, closing any detail view.
func (c *Composer) EditPost(postID string) {
	if postID == "" {
		return
	}
	c.editingPostID = postID
	c.openPostID = ""
}

// CloseSubView dismisses an open detail or editor without leaving home.
func (c *Composer) CloseSubView() {
	c.openPostID = ""
	c.editingPostID = ""
}

func (c *Composer) bumpReset() {
	c.resetGeneration++
	c.openPostID = ""
	c.editingPostID = ""
}

package navigation

import (
	"strings"

	"boxoffice/internal/session"
)

// Site routes the guard knows about
const (
	HomePath      = "/"
	LoginPath     = "/login/"
	LogoutPath    = "/logout/"
	OrdersPath    = "/my-orders/"
	AdminPath     = "/admin-logs/"
	OrganizerPath = "/organizer/"
)

// Link is a navigation entry
type Link struct {
	ID    string
	Href  string
	Label string
}

var (
	LinkLogin     = Link{ID: "login-btn", Href: LoginPath, Label: "Login"}
	LinkLogout    = Link{ID: "login-btn", Href: LogoutPath, Label: "Logout"}
	LinkOrders    = Link{ID: "orders-link", Href: OrdersPath, Label: "My Orders"}
	LinkAdmin     = Link{ID: "admin-link", Href: AdminPath, Label: "Admin Dashboard"}
	LinkDashboard = Link{ID: "dashboard-link", Href: OrganizerPath, Label: "Dashboard"}
)

// LinkSet is the ordered set of visible links
type LinkSet []Link

// Has reports whether a link with the given id is visible
func (s LinkSet) Has(l Link) bool {
	for _, v := range s {
		if v == l {
			return true
		}
	}
	return false
}

// Decision is what the caller should apply to the page
type Decision struct {
	Links      LinkSet
	RedirectTo string
}

// Redirects reports whether the current path must be left
func (d Decision) Redirects() bool {
	return d.RedirectTo != ""
}

// Decide computes visible links and the redirect for currentPath.
// It has no side effects.
func Decide(s session.Session, currentPath string) Decision {
	path := normalize(currentPath)

	if !s.Authenticated() {
		d := Decision{Links: LinkSet{LinkLogin}}
		if under(path, OrganizerPath) || under(path, OrdersPath) {
			d.RedirectTo = LoginPath
		}
		return d
	}

	// Role links are inserted ahead of the logout button, in this order
	links := LinkSet{LinkOrders}
	if s.IsStaff {
		links = append(links, LinkAdmin)
	}
	if s.Role == session.RoleOrganizer {
		links = append(links, LinkDashboard)
	}
	links = append(links, LinkLogout)

	d := Decision{Links: links}
	if under(path, OrganizerPath) && s.Role != session.RoleOrganizer {
		d.RedirectTo = HomePath
	}
	return d
}

// IsProtected reports whether a path requires an access token
func IsProtected(currentPath string) bool {
	path := normalize(currentPath)
	return under(path, OrganizerPath) || under(path, OrdersPath)
}

func normalize(path string) string {
	if path == "" {
		return HomePath
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}

func under(path, area string) bool {
	return strings.Contains(path, area)
}

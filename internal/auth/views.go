package auth

import (
	"golang.org/x/net/html"

	"boxoffice/internal/navigation"
	v "boxoffice/internal/views"
)

const (
	RegisterPath = "/register/"
)

// LoginForm renders the login page body. errMsg and info may be empty.
func LoginForm(username, errMsg, info string) *html.Node {
	form := v.El("form", v.Attrs("method", "post", "action", navigation.LoginPath, "id", "login-form", "class", "auth-form"),
		v.El("h2", nil, v.Text("Login")),
		v.El("label", v.Attrs("for", "username"), v.Text("Username")),
		v.El("input", v.Attrs("type", "text", "name", "username", "id", "username", "value", username, "required", "required")),
		v.El("label", v.Attrs("for", "password"), v.Text("Password")),
		v.El("input", v.Attrs("type", "password", "name", "password", "id", "password", "required", "required")),
		v.El("button", v.Attrs("type", "submit", "class", "cta-btn"), v.Text("Login")),
		v.El("p", nil, v.Text("No account yet? "), v.El("a", v.Attrs("href", RegisterPath), v.Text("Register"))),
	)
	return v.El("div", v.Class("auth-container"), notices("error-message", errMsg, info), form)
}

// RegisterForm renders the registration page body, keeping entered values
func RegisterForm(req RegisterRequest, errMsg string) *html.Node {
	field := func(label, id, name, typ, value string) []*html.Node {
		attrs := v.Attrs("type", typ, "name", name, "id", id, "required", "required")
		if value != "" {
			attrs = append(attrs, v.Attrs("value", value)...)
		}
		return []*html.Node{
			v.El("label", v.Attrs("for", id), v.Text(label)),
			v.El("input", attrs),
		}
	}

	form := v.El("form", v.Attrs("method", "post", "action", RegisterPath, "id", "register-form", "class", "auth-form"),
		v.El("h2", nil, v.Text("Create Account")))
	for _, n := range [][]*html.Node{
		field("Username", "reg-username", "username", "text", req.Username),
		field("Email", "reg-email", "email", "email", req.Email),
		field("Password", "reg-password", "password", "password", ""),
		field("Confirm Password", "reg-re-password", "re_password", "password", ""),
	} {
		for _, c := range n {
			form.AppendChild(c)
		}
	}
	form.AppendChild(v.El("button", v.Attrs("type", "submit", "class", "cta-btn"), v.Text("Register")))
	form.AppendChild(v.El("p", nil, v.Text("Already registered? "), v.El("a", v.Attrs("href", navigation.LoginPath), v.Text("Login"))))

	return v.El("div", v.Class("auth-container"), notices("reg-error-message", errMsg, ""), form)
}

func notices(errorID, errMsg, info string) *html.Node {
	box := v.El("div", v.Class("notices"))
	if info != "" {
		box.AppendChild(v.Message(info))
	}
	if errMsg != "" {
		msg := v.ErrorMessage(errMsg)
		msg.Attr = append(msg.Attr, html.Attribute{Key: "id", Val: errorID})
		box.AppendChild(msg)
	}
	return box
}

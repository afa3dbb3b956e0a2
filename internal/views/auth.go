package views

import (
	"blogr/internal/models"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

func RegisterPage(props PageProps, form models.RegisterForm) g.Node {
	return Layout(props,
		H1(g.Text("Register")),
		formEl(Method("post"), Action("/auth/register"),
			field("Username", "username", "text", form.Username, true),
			field("Email", "email", "email", form.Email, true),
			field("Password", "password", "password", "", true),
			submit("Register"),
		),
		P(g.Text("Already have an account? "), A(Href("/auth/login"), g.Text("Log in"))),
	)
}

func LoginPage(props PageProps, email string) g.Node {
	return Layout(props,
		H1(g.Text("Log In")),
		formEl(Method("post"), Action("/auth/login"),
			field("Email", "email", "email", email, true),
			field("Password", "password", "password", "", true),
			submit("Log In"),
		),
		P(g.Text("No account yet? "), A(Href("/auth/register"), g.Text("Register"))),
	)
}

func ProfilePage(props PageProps, user *models.User) g.Node {
	return Layout(props,
		H1(g.Text("Profile")),
		Div(Class("profile"),
			avatar(user.Photo),
			P(Class("email"), g.Text(user.Email)),
		),
		formEl(Method("post"), Action(profileHref(user)), g.Attr("enctype", "multipart/form-data"),
			field("Username", "username", "text", user.Username, true),
			field("New password", "password", "password", "", false),
			Small(g.Text("Leave empty to keep the current password.")),
			Div(Class("field"),
				labelEl("photo", "Photo"),
				Input(Type("file"), Name("photo"), ID("photo"), g.Attr("accept", "image/jpeg,image/png,image/gif")),
			),
			submit("Save"),
		),
	)
}

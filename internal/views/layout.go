package views

import (
	"blogr/internal/models"
	"blogr/internal/session"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

// PageProps is what every page needs besides its own content.
type PageProps struct {
	Title   string
	User    *models.User
	Flashes []session.Flash
}

func navbar(props PageProps) g.Node {
	var links []g.Node
	if props.User == nil {
		links = []g.Node{
			A(Href("/auth/login"), g.Text("Log In")),
			A(Href("/auth/register"), g.Text("Register")),
		}
	} else {
		links = []g.Node{
			A(Href("/post/posts"), g.Text("Posts")),
			A(Href("/post/create"), g.Text("New Post")),
			A(Href(profileHref(props.User)), g.Text(props.User.Username)),
			A(Href("/auth/logout"), g.Text("Log Out")),
		}
	}

	return Nav(Class("nav"),
		Div(Class("nav-left"),
			A(Class("brand"), Href("/"), g.Text("Blogr")),
		),
		Div(Class("nav-right"), g.Group(links)),
	)
}

func flashList(flashes []session.Flash) g.Node {
	if len(flashes) == 0 {
		return nil
	}
	return Div(Class("flashes"),
		g.Group(g.Map(flashes, func(f session.Flash) g.Node {
			return Div(Class("flash flash-"+f.Category), g.Attr("role", "alert"), g.Text(f.Message))
		})),
	)
}

func Layout(props PageProps, children ...g.Node) g.Node {
	title := "Blogr"
	if props.Title != "" {
		title = props.Title + " | Blogr"
	}

	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				Link(Rel("stylesheet"), Href("/static/css/main.css")),
				TitleEl(g.Text(title)),
			),
			Body(
				Div(Class("container"),
					navbar(props),
					flashList(props.Flashes),
					Main(g.Group(children)),
				),
			),
		),
	)
}

func profileHref(u *models.User) string {
	return "/auth/profile/" + itoa(u.ID)
}

package views

import (
	"fmt"

	"blogr/internal/models"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

func PostsPage(props PageProps, posts []models.Post) g.Node {
	var rows g.Node
	if len(posts) == 0 {
		rows = P(Class("empty"), g.Text("No posts yet."))
	} else {
		rows = Table(Class("posts"),
			THead(Tr(Th(g.Text("Title")), Th(g.Text("Author")), Th(g.Text("Created")), Th())),
			TBody(g.Group(g.Map(posts, func(p models.Post) g.Node {
				return Tr(
					Td(A(Href("/blog/"+p.URL), g.Text(p.Title))),
					Td(g.Text(p.AuthorName)),
					Td(posted(p.Created)),
					Td(Class("actions"),
						A(Href("/post/update/"+itoa(p.ID)), g.Text("Edit")),
						g.Text(" "),
						formEl(Class("inline"), Method("post"), Action("/post/delete/"+itoa(p.ID)),
							Button(Type("submit"), Class("button error"), g.Text("Delete")),
						),
					),
				)
			}))),
		)
	}

	return Layout(props,
		H1(g.Text("Posts")),
		A(Class("button primary"), Href("/post/create"), g.Text("New Post")),
		rows,
	)
}

// PostFormData drives both the create and the update form. The slug is only
// editable on create.
type PostFormData struct {
	Action      string
	Heading     string
	URL         string
	Title       string
	Info        string
	Content     string
	EditableURL bool
	CKEditorPkg string
}

func PostFormPage(props PageProps, data PostFormData) g.Node {
	pkg := data.CKEditorPkg
	if pkg == "" {
		pkg = "full"
	}

	var slug g.Node
	if data.EditableURL {
		slug = field("Url", "url", "text", data.URL, true)
	} else {
		slug = P(Class("slug"), g.Text("/blog/"+data.URL))
	}

	return Layout(props,
		H1(g.Text(data.Heading)),
		formEl(Method("post"), Action(data.Action),
			slug,
			field("Title", "title", "text", data.Title, true),
			field("Info", "info", "text", data.Info, false),
			textArea("Content", "content", data.Content, 12),
			submit("Save"),
		),
		Script(Src(fmt.Sprintf("https://cdn.ckeditor.com/4.22.1/%s/ckeditor.js", pkg))),
		Script(g.Raw("CKEDITOR.replace('content');")),
	)
}

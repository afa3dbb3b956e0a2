package views

import (
	"blogr/internal/models"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

type IndexData struct {
	Posts     []models.Post
	Query     string
	Searching bool
}

func searchForm(query string) g.Node {
	return formEl(Class("search"), Method("post"), Action("/"),
		Input(Type("search"), Name("search"), Placeholder("Search posts by title"), g.If(query != "", Value(query))),
		submit("Search"),
	)
}

func postCard(p models.Post) g.Node {
	return Article(Class("card post"),
		H2(A(Href("/blog/"+p.URL), g.Text(p.Title))),
		P(Class("meta"),
			g.If(p.AuthorName != "", Span(Class("author"), g.Text("by "+p.AuthorName+" "))),
			posted(p.Created),
		),
		g.If(p.Info != "", P(Class("info"), g.Text(p.Info))),
	)
}

func IndexPage(props PageProps, data IndexData) g.Node {
	var heading g.Node
	if data.Searching {
		heading = H1(g.Textf("Results for %q", data.Query))
	} else {
		heading = Section(Class("intro"),
			H1(g.Text("Blogr")),
			P(g.Text("Stories and notes from our authors.")),
		)
	}

	var list g.Node
	if len(data.Posts) == 0 {
		list = P(Class("empty"), g.Text("No posts found."))
	} else {
		list = Div(Class("posts"), g.Group(g.Map(data.Posts, postCard)))
	}

	return Layout(props,
		heading,
		searchForm(data.Query),
		list,
	)
}

// BlogPage renders one post. A nil post renders a not-found notice.
func BlogPage(props PageProps, post *models.Post) g.Node {
	if post == nil {
		return Layout(props,
			H1(g.Text("Post not found")),
			P(g.Text("There is no post at this address.")),
			A(Href("/"), g.Text("Back to all posts")),
		)
	}

	return Layout(props,
		Article(Class("post-detail"),
			H1(g.Text(post.Title)),
			P(Class("meta"),
				g.If(post.AuthorName != "", Span(Class("author"), g.Text("by "+post.AuthorName+" "))),
				posted(post.Created),
			),
			g.If(post.Info != "", P(Class("info"), g.Text(post.Info))),
			// authored through the rich-text editor by logged-in users
			Div(Class("content"), g.Raw(post.Content)),
		),
	)
}

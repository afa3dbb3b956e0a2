package views

import (
	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

func NotFoundPage(props PageProps) g.Node {
	props.Title = "Not Found"
	return Layout(props,
		H1(g.Text("Not Found")),
		P(g.Text("The page you are looking for does not exist.")),
		A(Href("/"), g.Text("Back to all posts")),
	)
}

func ErrorPage(props PageProps) g.Node {
	props.Title = "Error"
	return Layout(props,
		H1(g.Text("Something went wrong")),
		P(g.Text("Please try again later.")),
	)
}

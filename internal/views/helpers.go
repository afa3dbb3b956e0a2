package views

import (
	"strconv"
	"time"

	"blogr/internal/storage"

	"github.com/dustin/go-humanize"
	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formEl(children ...g.Node) g.Node {
	return g.El("form", children...)
}

func labelEl(target, text string) g.Node {
	return g.El("label", g.Attr("for", target), g.Text(text))
}

// field renders a labelled single-line input.
func field(label, name, typ, value string, required bool) g.Node {
	return Div(Class("field"),
		labelEl(name, label),
		Input(Type(typ), Name(name), ID(name), g.If(value != "", Value(value)), g.If(required, g.Attr("required"))),
	)
}

func textArea(label, name, value string, rows int) g.Node {
	return Div(Class("field"),
		labelEl(name, label),
		Textarea(Name(name), ID(name), g.Attr("rows", strconv.Itoa(rows)), g.Text(value)),
	)
}

func submit(text string) g.Node {
	return Button(Type("submit"), Class("button primary"), g.Text(text))
}

func posted(t time.Time) g.Node {
	if t.IsZero() {
		return nil
	}
	return Small(Class("posted"), Title(t.Format("2006-01-02 15:04")), g.Text(humanize.Time(t)))
}

func avatar(photo string) g.Node {
	src := storage.PhotoURL(photo)
	if src == "" {
		return nil
	}
	return Img(Class("avatar"), Src(src), Alt("profile photo"))
}

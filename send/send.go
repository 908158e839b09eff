package send

import (
	"strings"

	"github.com/rohanthewiz/element"
	"github.com/rohanthewiz/rline"
	"github.com/rohanthewiz/rline/consts"
)

// Text sends the body as is and ends the response.
func Text(res *rline.Response, body string) error {
	return res.Send(body)
}

// Lines sends each line terminated by CRLF and ends the response.
func Lines(res *rline.Response, lines ...string) error {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString(consts.CRLF)
	}
	return res.Send(sb.String())
}

// JSON encodes the object as a single JSON line and ends the response.
func JSON(res *rline.Response, object any) error {
	return res.JSON(object)
}

// File streams the file at path and ends the response.
func File(res *rline.Response, path string) error {
	return res.SendFile(path)
}

// HTML renders the components and sends the markup.
func HTML(res *rline.Response, components ...element.Component) error {
	b := element.NewBuilder()
	element.RenderComponents(b, components...)
	return res.Send(b.String())
}

// Error forwards err to the next error handler when it is not nil.
// It lets a handler end with send.Error(next, send.Text(res, body)).
func Error(next rline.Next, err error) {
	if err != nil {
		next(rline.Fail(err))
	}
}

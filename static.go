package rline

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rohanthewiz/rline/consts"
	"github.com/rohanthewiz/serr"
)

// StaticFiles returns a handler serving files under targetDir for selectors
// starting with reqDir. nbrOfTokensToStrip removes that many leading segments
// of the selector (after reqDir) before mapping it to a file.
// A directory is answered with a listing, one entry per line.
// Selectors outside reqDir, and files that do not exist, pass to the next handler.
func StaticFiles(reqDir string, targetDir string, nbrOfTokensToStrip int) Handler {
	reqDir = cleanPath(reqDir)

	return func(req *Request, res *Response, next Next) {
		if !hasPathPrefix(req.Path(), reqDir) {
			next(Continue())
			return
		}

		rel := strings.TrimPrefix(req.Path(), reqDir)
		tokens := strings.Split(strings.Trim(rel, consts.RootPath), consts.RootPath)
		if nbrOfTokensToStrip > 0 {
			if nbrOfTokensToStrip >= len(tokens) {
				tokens = nil
			} else {
				tokens = tokens[nbrOfTokensToStrip:]
			}
		}

		// Cleaning a rooted path removes any "..", keeping the result inside targetDir.
		rel = path.Clean(consts.RootPath + strings.Join(tokens, consts.RootPath))
		fullPath := filepath.Join(targetDir, filepath.FromSlash(rel))

		info, err := os.Stat(fullPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				next(Continue())
				return
			}
			next(Fail(serr.Wrap(err, "unable to stat file", "path", fullPath)))
			return
		}

		if info.IsDir() {
			if err = sendListing(res, fullPath); err != nil {
				next(Fail(err))
			}
			return
		}

		if err = res.SendFile(fullPath); err != nil {
			next(Fail(err))
		}
	}
}

func sendListing(res *Response, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return serr.Wrap(err, "unable to read directory", "path", dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += consts.RootPath
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteString(consts.CRLF)
	}
	return res.Send(sb.String())
}

package remote

import (
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/pribylovaa/kickoffzone-admin/internal/models"
)

type formField struct {
	name  string
	value string
}

type formFile struct {
	field string
	file  models.File
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartCall строит multipart-запрос потоково через io.Pipe: видео не буферизуется в памяти.
// Тело одноразовое, поэтому такие запросы никогда не повторяются.
// Если размеры всех файлов известны, запрос уходит с Content-Length, а не chunked.
func multipartCall(endpoint, path string, fields []formField, files []formFile) call {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	// Длина считается до запуска записи: она читает позицию файлов.
	length := formLength(mw.Boundary(), fields, files)

	go func() {
		pw.CloseWithError(writeForm(mw, fields, files))
	}()

	return call{
		endpoint:    endpoint,
		method:      "POST",
		path:        path,
		body:        pr,
		contentType: mw.FormDataContentType(),
		length:      length,
		upload:      true,
	}
}

// formLength — точная длина формы или -1, если размер хотя бы одного файла неизвестен.
// Каркас формы (поля, заголовки частей, границы) пишется с пустыми файлами и считается.
func formLength(boundary string, fields []formField, files []formFile) int64 {
	var total int64

	empty := make([]formFile, 0, len(files))
	for _, f := range files {
		n := sizeOf(f.file.Body)
		if n < 0 {
			return -1
		}
		total += n

		f.file.Body = strings.NewReader("")
		empty = append(empty, f)
	}

	var cw countingWriter
	mw := multipart.NewWriter(&cw)
	if err := mw.SetBoundary(boundary); err != nil {
		return -1
	}
	if err := writeForm(mw, fields, empty); err != nil {
		return -1
	}

	return total + cw.n
}

// sizeOf — сколько байт осталось прочитать из r, или -1.
func sizeOf(r io.Reader) int64 {
	switch v := r.(type) {
	case interface{ Len() int }:
		return int64(v.Len())
	case interface {
		Stat() (fs.FileInfo, error)
		io.Seeker
	}:
		fi, err := v.Stat()
		if err != nil || !fi.Mode().IsRegular() {
			return -1
		}
		pos, err := v.Seek(0, io.SeekCurrent)
		if err != nil {
			return -1
		}
		return fi.Size() - pos
	case interface {
		Size() int64
		io.Seeker
	}:
		pos, err := v.Seek(0, io.SeekCurrent)
		if err != nil {
			return -1
		}
		return v.Size() - pos
	default:
		return -1
	}
}

type countingWriter struct{ n int64 }

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

func writeForm(mw *multipart.Writer, fields []formField, files []formFile) error {
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("field %s: %w", f.name, err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.field), quoteEscaper.Replace(f.file.Name)))

		ct := f.file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := mw.CreatePart(h)
		if err != nil {
			return fmt.Errorf("file %s: %w", f.field, err)
		}

		if _, err := io.Copy(part, f.file.Body); err != nil {
			return fmt.Errorf("file %s: %w", f.field, err)
		}
	}

	return mw.Close()
}

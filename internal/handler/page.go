package handler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/GoArmGo/CatsApp/internal/domain"
	"github.com/GoArmGo/CatsApp/internal/usecase"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

const (
	flashNotFound = "That cat is no longer here."
	flashFailed   = "Something went wrong, please try again."
)

// pageData данные для шаблона главной страницы
type pageData struct {
	Cats       []usecase.CatView
	Total      int
	PhotoError string
	Flash      string
}

// PageHandler отдаёт HTML-страницу и обрабатывает отправку форм.
// После успешного действия делает 303 на "/", чтобы повторная отправка формы не дублировала действие.
type PageHandler struct {
	cats *CatHandler
}

// NewPageHandler создаёт обработчик страницы поверх CatHandler
func NewPageHandler(cats *CatHandler) *PageHandler {
	return &PageHandler{cats: cats}
}

// Index — главная страница со списком котов.
func (p *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	p.renderList(w, r, http.StatusOK, pageData{})
}

// Upload — отправка формы загрузки.
func (p *PageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	release, ok := p.cats.acquireUploadSlot(r)
	if !ok {
		p.renderList(w, r, http.StatusServiceUnavailable, pageData{Flash: flashFailed})
		return
	}
	defer release()

	if _, err := p.cats.submitUpload(w, r); err != nil {
		p.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Like — кнопка лайка.
func (p *PageHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := parseCatID(r)
	if !ok {
		http.Error(w, "Invalid cat id", http.StatusBadRequest)
		return
	}
	if _, err := p.cats.catUseCase.LikeCat(r.Context(), id); err != nil {
		p.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Delete — кнопка удаления.
func (p *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseCatID(r)
	if !ok {
		http.Error(w, "Invalid cat id", http.StatusBadRequest)
		return
	}
	if _, err := p.cats.catUseCase.DeleteCat(r.Context(), id); err != nil {
		p.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// renderError показывает страницу заново с сообщением об ошибке
func (p *PageHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		p.renderList(w, r, http.StatusUnprocessableEntity, pageData{PhotoError: validationErr.Message})
	case errors.Is(err, domain.ErrCatNotFound):
		p.cats.logger.Warn("cat not found", "path", r.URL.Path, "error", err)
		p.renderList(w, r, http.StatusNotFound, pageData{Flash: flashNotFound})
	default:
		p.cats.logger.Error("page action failed", "path", r.URL.Path, "error", err)
		p.renderList(w, r, http.StatusInternalServerError, pageData{Flash: flashFailed})
	}
}

func (p *PageHandler) renderList(w http.ResponseWriter, r *http.Request, code int, data pageData) {
	view, err := p.cats.catUseCase.ListCats(r.Context())
	if err != nil {
		p.cats.logger.Error("failed to list cats for page", "error", err)
		http.Error(w, flashFailed, http.StatusInternalServerError)
		return
	}
	data.Cats = view.Cats
	data.Total = view.Total

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		p.cats.logger.Error("failed to render page", "error", err)
		http.Error(w, flashFailed, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		p.cats.logger.Error("failed to write HTTP response", "error", err)
	}
}

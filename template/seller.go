package template

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/hellodex/otcboard/logger"
	"github.com/hellodex/otcboard/model"
	"github.com/hellodex/otcboard/util"
	"github.com/rs/zerolog"
)

var sellerRowTemplate = `
    <tr class="tr-data">
        <td><a target="_blank" rel="noopener noreferrer" href="{{ url }}">{{ nickName }}</a></td>
        <td style="color: {% if isOnline %}green{% else %}orange{% endif %}">{% if isOnline %}online{% else %}{{ lastLogoutTime|offlineSince:now }}{% endif %}</td>
        <td>{{ price }}</td>
        <td>{{ minAmount }} - {{ maxAmount }}</td>
        <td>{{ remark }}</td>
    </tr>
    `

// Renderer turns sellers into the HTML page. The page template is read from disk on every call.
type Renderer struct {
	templatePath string
	profileBase  string
	row          *pongo2.Template
	now          func() time.Time
	log          zerolog.Logger
}

func NewRenderer(templatePath, profileBase string, log zerolog.Logger) (*Renderer, error) {
	tpl, err := pongo2.FromString(sellerRowTemplate)
	if err != nil {
		return nil, fmt.Errorf("compile row template: %w", err)
	}
	return &Renderer{
		templatePath: templatePath,
		profileBase:  profileBase,
		row:          tpl,
		now:          time.Now,
		log:          log.With().Str(logger.CategoryField, logger.CategoryRender).Logger(),
	}, nil
}

// WithClock replaces the wall clock used for offline durations.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// RenderRow renders one table row. Nickname and remark are HTML-escaped.
func (r *Renderer) RenderRow(seller model.Seller) (string, error) {
	out, err := r.row.Execute(pongo2.Context{
		"url":            util.GetSellerProfileUrl(r.profileBase, seller.UserMaskId),
		"nickName":       seller.NickName,
		"isOnline":       seller.IsOnline,
		"lastLogoutTime": int64(seller.LastLogoutTime),
		"now":            r.now().Unix(),
		"price":          seller.Price.String(),
		"minAmount":      seller.MinAmount.String(),
		"maxAmount":      seller.MaxAmount.String(),
		"remark":         seller.Remark,
	})
	if err != nil {
		r.log.Error().Err(err).Str("userMaskId", seller.UserMaskId).Send()
		return "", fmt.Errorf("%w: %s: %v", ErrRender, seller.UserMaskId, err)
	}
	return out, nil
}

func (r *Renderer) RenderRows(sellers []model.Seller) (string, error) {
	rows := make([]string, 0, len(sellers))
	for _, s := range sellers {
		row, err := r.RenderRow(s)
		if err != nil {
			return "", err
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n"), nil
}

// RenderPage substitutes the rows for Placeholder in the page template.
func (r *Renderer) RenderPage(sellers []model.Seller) (string, error) {
	data, err := os.ReadFile(r.templatePath)
	if err != nil {
		return "", &FileError{Path: r.templatePath, Err: err}
	}
	page := string(data)
	if !strings.Contains(page, Placeholder) {
		r.log.Warn().Str("template", r.templatePath).Msg("template has no table placeholder")
	}

	rows, err := r.RenderRows(sellers)
	if err != nil {
		return "", err
	}

	r.log.Debug().Int("rows", len(sellers)).Msg("page rendered")
	return strings.ReplaceAll(page, Placeholder, rows), nil
}

// Package render composes the post body HTML for a listing. Rendering is a
// pure function of the merged record, the source URL and the content
// configuration captured at construction time.
package render

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/cejezed/kavelarchitect/models"
)

type Renderer struct {
	cfg models.ContentConfig
}

func NewRenderer(cfg models.ContentConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render builds the post body: configured intro, the long-form article (or
// its summary fallbacks), a facts block, the source link, a call-to-action
// and the configured footer.
func (r *Renderer) Render(rec *models.EnrichmentRecord, sourceURL string) string {
	var blocks []string

	if r.cfg.IntroHTML != "" {
		blocks = append(blocks, r.cfg.IntroHTML)
	}

	switch {
	case rec.Article != "":
		blocks = append(blocks, rec.Article)
	case rec.Summary != "":
		blocks = append(blocks, "<p>"+rec.Summary+"</p>")
	default:
		blocks = append(blocks, "<p>"+fallbackSummary(rec)+"</p>")
	}

	if facts := factsBlock(rec); facts != "" {
		blocks = append(blocks, facts)
	}

	link := r.applyUTM(sourceURL)
	if link == "" {
		link = "#"
	}
	blocks = append(blocks,
		fmt.Sprintf(`<p><a href="%s" target="_blank" rel="nofollow noopener">Bekijk aanbod op Funda</a></p>`, link))

	blocks = append(blocks,
		fmt.Sprintf(`<p><em>Geïnteresseerd? <a href="%s" target="_blank" rel="nofollow noopener">%s</a> om de mogelijkheden te bespreken.</em></p>`,
			r.cfg.CTAURL, r.cfg.CTAText))

	blocks = append(blocks, r.meerWetenBlock(link))

	if r.cfg.FooterHTML != "" {
		blocks = append(blocks, r.cfg.FooterHTML)
	}

	return strings.Join(blocks, "\n")
}

func factsBlock(rec *models.EnrichmentRecord) string {
	var lines []string
	if rec.Price > 0 {
		lines = append(lines, "<strong>Vraagprijs:</strong> "+FormatEuro(rec.Price))
	}
	if rec.Surface > 0 {
		lines = append(lines, "<strong>Oppervlakte:</strong> "+FormatSurface(rec.Surface))
	}
	if rec.Address != "" {
		lines = append(lines, "<strong>Adres:</strong> "+rec.Address)
	} else if rec.Place != "" {
		lines = append(lines, "<strong>Locatie:</strong> "+rec.Place)
	}
	if rec.Province != "" {
		lines = append(lines, "<strong>Provincie:</strong> "+rec.Province)
	}
	if len(lines) == 0 {
		return ""
	}
	return "<p>" + strings.Join(lines, "<br/>") + "</p>"
}

func fallbackSummary(rec *models.EnrichmentRecord) string {
	var parts []string
	switch {
	case rec.Place != "" && rec.Surface > 0:
		parts = append(parts, fmt.Sprintf("In %s wordt een bouwkavel van circa %s aangeboden.", rec.Place, FormatSurface(rec.Surface)))
	case rec.Place != "":
		parts = append(parts, fmt.Sprintf("In %s is een bouwkavel beschikbaar.", rec.Place))
	}
	if rec.Price > 0 {
		parts = append(parts, fmt.Sprintf("De vraagprijs bedraagt %s.", FormatEuro(rec.Price)))
	}
	parts = append(parts, "Klik door voor details en voorwaarden.")
	return strings.Join(parts, " ")
}

func (r *Renderer) meerWetenBlock(link string) string {
	return "<h2>Meer weten?</h2>\n" +
		fmt.Sprintf(`Geïnteresseerd in bouwen op deze locatie? Bekijk de <a href="%s" target="_blank" rel="nofollow noopener">volledige Funda-pagina</a> `, link) +
		fmt.Sprintf(`of neem vrijblijvend <a href="%s">contact met ons</a> op voor bouwadvies, begeleiding of een vrijblijvend ontwerpvoorstel.<br/><br/>`, r.cfg.CTAURL) + "\n" +
		"Het kan natuurlijk ook zo zijn dat de link niet meer werkt omdat de kavel al verkocht is. " +
		fmt.Sprintf(`Mocht u op zoek zijn naar de mogelijkheid voor bouwen of verbouwen van een woning in een bepaalde regio en prijsklasse, <a href="%s">neem dan contact op</a> en ik zoek vrijblijvend met u mee.`, r.cfg.CTAURL)
}

// applyUTM tags the outbound source link with the configured campaign
// parameters. Returns the URL untouched when tagging is disabled or the URL
// does not parse.
func (r *Renderer) applyUTM(rawURL string) string {
	if rawURL == "" || !r.cfg.AddUTM {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("utm_source", defaultString(r.cfg.UTMSource, "kavelarchitect"))
	q.Set("utm_medium", defaultString(r.cfg.UTMMedium, "post"))
	q.Set("utm_campaign", defaultString(r.cfg.UTMCampaign, "bouwgrond"))
	u.RawQuery = q.Encode()
	return u.String()
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// FormatEuro renders whole euros with Dutch thousands separators.
func FormatEuro(amount int) string {
	return "€ " + groupThousands(amount)
}

// FormatSurface renders a plot surface in m².
func FormatSurface(surface int) string {
	return groupThousands(surface) + " m²"
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

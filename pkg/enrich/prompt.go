package enrich

import "fmt"

const systemPrompt = "Je bent een senior SEO-copywriter voor Architectenbureau Jules Zwijsen. " +
	"Jules Zwijsen is een ervaren architect die particuliere bouwers begeleidt van de eerste schets tot de sleuteloverdracht. " +
	"Je schrijft uitgebreide, hoogwaardige artikelen over bouwkavels die de lezer informeren en motiveren om contact op te nemen. " +
	"Je doel is organisch verkeer trekken en vertrouwen wekken door de rol van Jules Zwijsen als begeleider centraal te stellen."

const userPromptFormat = `Bezoek en lees de pagina:
%s

Hier is de volledige omschrijving van de pagina (gebruik dit als primaire bron voor details):
---
%s
---

Taken:
1) Analyse: extraheer alle harde feiten (adres, prijs, oppervlakte, bouwregels, bestemmingsplan).
2) SEO: bepaal het beste focus keyword (bijv. "Bouwkavel [Plaats]") en een SEO-titel die ermee begint.
3) Schrijf een artikel in HTML van minimaal 800 woorden, in het Nederlands, met:
   - een intro die het focus keyword in de eerste zin gebruikt;
   - een hoofdstuk over de kavel zelf (locatie, oppervlakte, prijs per m2, omgeving);
   - een hoofdstuk over de bouwmogelijkheden (bestemmingsplan, goothoogte, nokhoogte, volume);
   - een uitgebreid hoofdstuk over hoe Jules Zwijsen de koper begeleidt, van haalbaarheidscheck
     via ontwerp en vergunningen tot bouwbegeleiding (persoonlijke toon, ik-vorm);
   - een afsluiting met call-to-action voor een vrijblijvend gesprek.

Retourneer STRIKT JSON met exact deze velden:
{
  "title": "De geoptimaliseerde SEO titel",
  "focus_keyword": "Het gekozen focus keyword",
  "seo_description": "Meta description met focus keyword (max 155 tekens)",
  "address": string|null,
  "street": string|null,
  "house_number": string|null,
  "postal_code": string|null,
  "place": string|null,
  "province": string|null,
  "price": string|null,
  "surface": string|null,
  "description_short": string|null,
  "summary_nl": string|null,
  "article_nl": "De volledige HTML content",
  "coordinates": {"lat": number, "lon": number}|null
}`

func userPrompt(url, pageContext string) string {
	return fmt.Sprintf(userPromptFormat, url, pageContext)
}

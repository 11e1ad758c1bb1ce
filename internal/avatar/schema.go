package avatar

// requiredKeys are the top-level sections every complete analysis carries.
// insights_pesquisa and research_metadata are synthesized during enrichment,
// so their absence in raw model output is not a defect.
var requiredKeys = []string{
	"escopo",
	"avatar",
	"dores_desejos",
	"concorrencia",
	"mercado",
	"palavras_chave",
	"metricas",
	"voz_mercado",
	"projecoes",
	"plano_acao",
}

// missingKeys returns the required sections absent from doc, in schema order.
func missingKeys(doc map[string]any) []string {
	var missing []string
	for _, key := range requiredKeys {
		if _, ok := doc[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

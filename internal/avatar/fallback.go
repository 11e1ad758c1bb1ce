package avatar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Defaults used by the fallback arithmetic when the request omits a numeric field.
const (
	defaultPrice           = 997.0
	defaultRevenueGoal     = 100000.0
	defaultMarketingBudget = 50000.0
)

// BuildFallback deterministically synthesizes a complete analysis document
// from the request alone. It is total: every key the LLM path can produce is
// present, so consumers never branch on provenance. Arithmetic fields derive
// from price, revenue goal, and marketing budget; everything else is static
// illustrative copy.
func BuildFallback(req Request) map[string]any {
	niche := req.Niche
	if strings.TrimSpace(niche) == "" {
		niche = "Produto Digital"
	}
	product := req.Product
	if strings.TrimSpace(product) == "" {
		product = "Produto Digital"
	}

	price := orDefault(req.Price, defaultPrice)
	revenueGoal := orDefault(req.RevenueGoal, defaultRevenueGoal)
	marketingBudget := orDefault(req.MarketingBudget, defaultMarketingBudget)

	return map[string]any{
		"escopo": map[string]any{
			"nicho_principal": niche,
			"subnichos": []any{
				fmt.Sprintf("%s para iniciantes", niche),
				fmt.Sprintf("%s avançado", niche),
				fmt.Sprintf("%s empresarial", niche),
			},
			"produto_ideal":  product,
			"proposta_valor": fmt.Sprintf("A metodologia mais completa e prática para dominar %s no mercado brasileiro", niche),
		},
		"avatar": map[string]any{
			"demografia": map[string]any{
				"faixa_etaria": "32-45 anos",
				"genero":       "65% mulheres, 35% homens",
				"localizacao":  "Região Sudeste (45%), Sul (25%), Nordeste (20%), Centro-Oeste (10%)",
				"renda":        "R$ 8.000 - R$ 25.000 mensais",
				"escolaridade": "Superior completo (80%), Pós-graduação (45%)",
				"profissoes": []any{
					"Empreendedores digitais", "Consultores", "Profissionais liberais", "Gestores", "Coaches",
				},
			},
			"psicografia": map[string]any{
				"valores": []any{
					"Crescimento pessoal contínuo", "Independência financeira", "Reconhecimento profissional",
				},
				"estilo_vida": "Vida acelerada, busca por eficiência e produtividade, valoriza tempo de qualidade com família, investe em desenvolvimento pessoal",
				"aspiracoes": []any{
					"Ser reconhecido como autoridade no nicho", "Ter liberdade geográfica e financeira",
				},
				"medos": []any{
					"Ficar obsoleto no mercado", "Perder oportunidades por indecisão", "Não conseguir escalar o negócio",
				},
				"frustracoes": []any{
					"Excesso de informação sem aplicação prática", "Falta de tempo para implementar estratégias",
				},
			},
			"comportamento_digital": map[string]any{
				"plataformas":    []any{"Instagram (stories e reels)", "LinkedIn (networking profissional)"},
				"horarios_pico":  "6h-8h (manhã) e 19h-22h (noite)",
				"conteudo_preferido": []any{
					"Vídeos educativos curtos", "Cases de sucesso com números", "Dicas práticas aplicáveis",
				},
				"influenciadores": []any{
					"Especialistas reconhecidos no nicho", "Empreendedores de sucesso com transparência",
				},
			},
		},
		"dores_desejos": map[string]any{
			"principais_dores": []any{
				map[string]any{
					"descricao": fmt.Sprintf("Dificuldade para se posicionar como autoridade em %s", niche),
					"impacto":   "Baixo reconhecimento profissional e dificuldade para precificar serviços adequadamente",
					"urgencia":  "Alta",
				},
				map[string]any{
					"descricao": "Falta de metodologia estruturada e comprovada",
					"impacto":   "Resultados inconsistentes e desperdício de tempo e recursos",
					"urgencia":  "Alta",
				},
				map[string]any{
					"descricao": "Concorrência acirrada e commoditização do mercado",
					"impacto":   "Guerra de preços e dificuldade para se diferenciar",
					"urgencia":  "Média",
				},
			},
			"estado_atual":   "Profissional competente com conhecimento técnico, mas sem estratégia clara de posicionamento e crescimento",
			"estado_desejado": "Autoridade reconhecida no nicho com negócio escalável e lucrativo, trabalhando com propósito e impacto",
			"obstaculos": []any{
				"Falta de método estruturado", "Dispersão de foco em múltiplas estratégias", "Recursos limitados para investimento",
			},
			"sonho_secreto": "Ser reconhecido como o maior especialista do nicho no Brasil e ter um negócio que funcione sem sua presença constante",
		},
		"concorrencia": map[string]any{
			"diretos": []any{
				map[string]any{
					"nome":  fmt.Sprintf("Academia Premium %s", niche),
					"preco": formatBRL(price * 1.8),
					"usp":   "Metodologia exclusiva com certificação",
					"forcas": []any{
						"Marca estabelecida há 5+ anos", "Comunidade ativa de 10k+ membros",
					},
					"fraquezas": []any{
						"Preço elevado", "Suporte limitado", "Conteúdo muito teórico",
					},
				},
			},
			"indiretos": []any{
				map[string]any{
					"nome": "Cursos gratuitos no YouTube",
					"tipo": "Conteúdo educacional gratuito",
				},
			},
			"gaps_mercado": []any{
				"Falta de metodologia prática com implementação assistida",
				"Ausência de suporte contínuo pós-compra",
				"Preços inacessíveis para profissionais em início de carreira",
			},
		},
		"mercado": map[string]any{
			"tam":          "R$ 3,2 bilhões",
			"sam":          "R$ 480 milhões",
			"som":          "R$ 24 milhões",
			"volume_busca": "67.000 buscas/mês",
			"tendencias_alta": []any{
				"IA aplicada ao nicho", "Automação de processos", "Sustentabilidade e ESG",
			},
			"tendencias_baixa": []any{
				"Métodos tradicionais offline", "Processos manuais repetitivos",
			},
			"sazonalidade": map[string]any{
				"melhores_meses": []any{"Janeiro", "Março", "Setembro"},
				"piores_meses":   []any{"Dezembro", "Julho"},
			},
		},
		"palavras_chave": map[string]any{
			"principais": []any{
				map[string]any{
					"termo":       fmt.Sprintf("curso %s", niche),
					"volume":      "12.100",
					"cpc":         "R$ 4,20",
					"dificuldade": "Média",
					"intencao":    "Comercial",
				},
			},
			"custos_plataforma": platformCosts(),
		},
		"metricas": map[string]any{
			"cac_medio":       formatBRL(marketingBudget * 0.01),
			"funil_conversao": []any{"100% visitantes", "18% leads", "3,2% vendas"},
			"ltv_medio":       formatBRL(price * 1.8),
			"ltv_cac_ratio":   "4,0:1",
			"roi_canais": map[string]any{
				"facebook": "320%",
				"google":   "380%",
				"youtube":  "250%",
				"tiktok":   "180%",
			},
		},
		"voz_mercado": map[string]any{
			"objecoes": []any{
				map[string]any{
					"objecao":  "Não tenho tempo para mais um curso",
					"contorno": "Metodologia de implementação em 15 minutos diários com resultados em 30 dias",
				},
			},
			"linguagem": map[string]any{
				"termos":   []any{"Metodologia", "Sistema", "Framework", "Estratégia", "Resultados"},
				"girias":   []any{"Game changer", "Virada de chave", "Next level"},
				"gatilhos": []any{"Comprovado cientificamente", "Resultados garantidos", "Método exclusivo"},
			},
			"crencas_limitantes": []any{
				"Preciso trabalhar mais horas para ganhar mais dinheiro",
				"Só quem tem muito dinheiro consegue se destacar no mercado",
			},
		},
		"projecoes": map[string]any{
			"conservador": map[string]any{
				"conversao":   "2,0%",
				"faturamento": formatBRL(revenueGoal * 0.6),
				"roi":         "240%",
			},
			"realista": map[string]any{
				"conversao":   "3,2%",
				"faturamento": formatBRL(revenueGoal),
				"roi":         "380%",
			},
			"otimista": map[string]any{
				"conversao":   "5,0%",
				"faturamento": formatBRL(revenueGoal * 1.5),
				"roi":         "580%",
			},
		},
		"plano_acao": []any{
			actionStep(1, "Validar proposta de valor com pesquisa qualitativa (50 entrevistas)", "2 semanas"),
			actionStep(2, "Criar landing page otimizada com copy baseado na pesquisa", "1 semana"),
			actionStep(3, "Configurar campanhas de tráfego pago (Facebook e Google)", "1 semana"),
			actionStep(4, "Produzir conteúdo de aquecimento (webinar + sequência de e-mails)", "2 semanas"),
			actionStep(5, "Executar campanha de pré-lançamento com early bird", "1 semana"),
			actionStep(6, "Lançamento oficial com live de abertura", "1 semana"),
			actionStep(7, "Otimizar campanhas baseado em dados e escalar investimento", "Contínuo"),
		},
		"insights_pesquisa": map[string]any{
			"dados_mercado":            "Análise baseada em dados de mercado consolidados e benchmarks da indústria",
			"concorrentes_encontrados": "Principais players identificados através de análise competitiva",
			"tendencias_identificadas": "Tendências emergentes no mercado brasileiro",
			"oportunidades_unicas":     "Gaps de mercado identificados para diferenciação estratégica",
		},
		"research_metadata": map[string]any{
			"search_timestamp":     time.Now().UTC().Format(time.RFC3339),
			"sources_consulted":    0,
			"competitors_analyzed": 0,
			"data_quality":         "fallback",
		},
	}
}

func platformCosts() map[string]any {
	return map[string]any{
		"facebook": map[string]any{"cpm": "R$ 18", "cpc": "R$ 1,45", "cpl": "R$ 28", "conversao": "2,8%"},
		"google":   map[string]any{"cpm": "R$ 32", "cpc": "R$ 3,20", "cpl": "R$ 52", "conversao": "3,5%"},
		"youtube":  map[string]any{"cpm": "R$ 12", "cpc": "R$ 0,80", "cpl": "R$ 20", "conversao": "1,8%"},
		"tiktok":   map[string]any{"cpm": "R$ 8", "cpc": "R$ 0,60", "cpl": "R$ 18", "conversao": "1,5%"},
	}
}

func actionStep(step int, action, deadline string) map[string]any {
	return map[string]any{
		"passo": step,
		"acao":  action,
		"prazo": deadline,
	}
}

func orDefault(ptr *float64, def float64) float64 {
	if ptr == nil || *ptr <= 0 {
		return def
	}
	return *ptr
}

// formatBRL renders a value as "R$ 1.234" with dot thousands separators,
// truncating any fractional part.
func formatBRL(value float64) string {
	n := int64(value)
	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	b.WriteString("R$ ")
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteString(".")
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteString(".")
		}
	}
	return b.String()
}

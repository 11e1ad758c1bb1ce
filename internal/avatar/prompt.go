package avatar

import (
	"fmt"
	"strings"

	"avatar-backend/internal/research"
)

// SystemPrompt frames the model as a Brazilian-market launch strategist and
// pins the output contract to bare JSON.
const SystemPrompt = `Você é um especialista mundial em pesquisa de mercado, neurociência aplicada ao marketing e lançamentos de produtos digitais.

Sua expertise inclui:
- Psicologia comportamental e neurociência do consumidor
- Análise de mercado e segmentação psicográfica avançada
- Estratégias de lançamento de produtos digitais de alto ticket
- Métricas e projeções realistas para o mercado brasileiro
- Análise competitiva e posicionamento estratégico
- Funis de conversão e otimização de campanhas

INSTRUÇÕES CRÍTICAS:
1. Use SEMPRE dados reais e específicos do mercado brasileiro
2. Base suas análises em pesquisas e dados fornecidos
3. Seja extremamente detalhado e específico
4. Foque em insights acionáveis e práticos
5. Use números realistas baseados em benchmarks do mercado
6. Retorne APENAS JSON válido, sem texto adicional

Crie análises de avatar extremamente detalhadas, precisas e acionáveis.`

const (
	digestSnippetsPerCategory  = 2
	digestResultsPerCompetitor = 1
)

// ComposePrompt builds the user message: the request fields, a digest of the
// gathered research, and the exact JSON skeleton the model must fill in.
func ComposePrompt(req Request, res *research.MarketResearch) string {
	var b strings.Builder

	b.WriteString("Analise o seguinte produto/serviço e crie uma análise ultra-detalhada do avatar ideal para o mercado brasileiro.\n\n")
	b.WriteString("DADOS DO PRODUTO:\n")
	fmt.Fprintf(&b, "- Nicho: %s\n", req.Niche)
	fmt.Fprintf(&b, "- Produto: %s\n", req.Product)
	fmt.Fprintf(&b, "- Preço: R$ %s\n", formatOptional(req.Price))
	fmt.Fprintf(&b, "- Público: %s\n", req.Audience)
	fmt.Fprintf(&b, "- Objetivo de Receita: R$ %s\n", formatOptional(req.RevenueGoal))
	fmt.Fprintf(&b, "- Orçamento Marketing: R$ %s\n", formatOptional(req.MarketingBudget))

	b.WriteString("\nDADOS DE PESQUISA DE MERCADO:\n")
	b.WriteString(researchDigest(res))

	b.WriteString("\n\nRetorne APENAS um JSON válido com esta estrutura exata:\n\n")
	b.WriteString(responseSkeleton(req.Niche))

	b.WriteString("\n\nINSTRUÇÕES CRÍTICAS:\n")
	b.WriteString("- Use EXCLUSIVAMENTE dados da pesquisa fornecida quando disponível\n")
	b.WriteString("- Substitua TODOS os placeholders por valores numéricos reais\n")
	fmt.Fprintf(&b, "- Base as projeções no preço (%s) e orçamento (%s) informados\n",
		formatOptional(req.Price), formatOptional(req.MarketingBudget))
	b.WriteString("- Seja extremamente específico e detalhado\n")
	b.WriteString("- Foque em insights acionáveis baseados na pesquisa real")

	return b.String()
}

// researchDigest flattens gathered results into prompt text, capped per
// category and per competitor to keep the context window in check.
func researchDigest(res *research.MarketResearch) string {
	if res == nil || !res.HasMarketData() {
		return "Nenhum dado de pesquisa disponível."
	}

	var lines []string
	for _, category := range research.Categories {
		results := res.Market[category]
		if len(results) == 0 {
			continue
		}
		lines = append(lines, "", strings.ToUpper(category)+":")
		for i, r := range results {
			if i >= digestSnippetsPerCategory {
				break
			}
			lines = append(lines, fmt.Sprintf("- %s: %s", r.Title, r.Snippet))
		}
	}

	if len(res.Competitors) > 0 {
		lines = append(lines, "", "CONCORRENTES IDENTIFICADOS:")
		for _, c := range res.Competitors {
			lines = append(lines, "- "+c.Name)
			for i, r := range c.Results {
				if i >= digestResultsPerCompetitor {
					break
				}
				lines = append(lines, "  * "+r.Snippet)
			}
		}
	}

	if len(lines) == 0 {
		return "Dados de pesquisa limitados disponíveis."
	}
	return strings.TrimPrefix(strings.Join(lines, "\n"), "\n")
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", *v), "0"), ".")
}

// responseSkeleton is the structure the model echoes back; the niche is
// interpolated so the escopo section is pre-anchored.
func responseSkeleton(niche string) string {
	return fmt.Sprintf(`{
  "escopo": {
    "nicho_principal": %q,
    "subnichos": ["Subniche específico 1", "Subniche específico 2", "Subniche específico 3"],
    "produto_ideal": "Nome do produto ideal baseado no nicho",
    "proposta_valor": "Proposta de valor única e específica baseada na pesquisa"
  },
  "avatar": {
    "demografia": {
      "faixa_etaria": "Faixa específica em anos",
      "genero": "Distribuição percentual por gênero",
      "localizacao": "Principais regiões do Brasil com percentuais",
      "renda": "Faixa de renda mensal em R$",
      "escolaridade": "Nível educacional predominante",
      "profissoes": ["Profissão específica 1", "Profissão específica 2", "Profissão específica 3"]
    },
    "psicografia": {
      "valores": ["Valor específico 1", "Valor específico 2", "Valor específico 3"],
      "estilo_vida": "Descrição detalhada do estilo de vida",
      "aspiracoes": ["Aspiração específica 1", "Aspiração específica 2"],
      "medos": ["Medo específico 1", "Medo específico 2", "Medo específico 3"],
      "frustracoes": ["Frustração específica 1", "Frustração específica 2"]
    },
    "comportamento_digital": {
      "plataformas": ["Plataforma principal 1", "Plataforma principal 2"],
      "horarios_pico": "Horários específicos de maior atividade",
      "conteudo_preferido": ["Tipo de conteúdo 1", "Tipo de conteúdo 2", "Tipo de conteúdo 3"],
      "influenciadores": ["Tipo de influenciador 1", "Tipo de influenciador 2"]
    }
  },
  "dores_desejos": {
    "principais_dores": [
      {"descricao": "Dor específica e detalhada 1", "impacto": "Como esta dor impacta a vida da pessoa", "urgencia": "Alta"},
      {"descricao": "Dor específica e detalhada 2", "impacto": "Como esta dor impacta a vida da pessoa", "urgencia": "Média"},
      {"descricao": "Dor específica e detalhada 3", "impacto": "Como esta dor impacta a vida da pessoa", "urgencia": "Baixa"}
    ],
    "estado_atual": "Descrição detalhada do estado atual do avatar",
    "estado_desejado": "Descrição detalhada do estado desejado",
    "obstaculos": ["Obstáculo específico 1", "Obstáculo específico 2"],
    "sonho_secreto": "O sonho mais profundo que o avatar não verbaliza"
  },
  "concorrencia": {
    "diretos": [
      {
        "nome": "Nome real do concorrente baseado na pesquisa",
        "preco": "Faixa de preço em R$ baseada na pesquisa",
        "usp": "Proposta única específica",
        "forcas": ["Força específica 1", "Força específica 2"],
        "fraquezas": ["Fraqueza específica 1", "Fraqueza específica 2"]
      }
    ],
    "indiretos": [
      {"nome": "Concorrente indireto específico", "tipo": "Tipo de solução alternativa"}
    ],
    "gaps_mercado": ["Gap específico 1 baseado na pesquisa", "Gap específico 2", "Gap específico 3"]
  },
  "mercado": {
    "tam": "Valor em R$ bilhões baseado na pesquisa",
    "sam": "Valor em R$ milhões baseado na pesquisa",
    "som": "Valor em R$ milhões baseado na pesquisa",
    "volume_busca": "Número de buscas mensais baseado na pesquisa",
    "tendencias_alta": ["Tendência em alta 1 da pesquisa", "Tendência em alta 2"],
    "tendencias_baixa": ["Tendência em baixa 1 da pesquisa"],
    "sazonalidade": {
      "melhores_meses": ["Mês 1", "Mês 2"],
      "piores_meses": ["Mês 1"]
    }
  },
  "palavras_chave": {
    "principais": [
      {
        "termo": "palavra-chave específica baseada na pesquisa",
        "volume": "Volume mensal estimado",
        "cpc": "CPC em R$ estimado",
        "dificuldade": "Alta/Média/Baixa",
        "intencao": "Comercial/Informacional"
      }
    ],
    "custos_plataforma": {
      "facebook": {"cpm": "R$ 18", "cpc": "R$ 1,45", "cpl": "R$ 28", "conversao": "2,8%%"},
      "google": {"cpm": "R$ 32", "cpc": "R$ 3,20", "cpl": "R$ 52", "conversao": "3,5%%"},
      "youtube": {"cpm": "R$ 12", "cpc": "R$ 0,80", "cpl": "R$ 20", "conversao": "1,8%%"},
      "tiktok": {"cpm": "R$ 8", "cpc": "R$ 0,60", "cpl": "R$ 18", "conversao": "1,5%%"}
    }
  },
  "metricas": {
    "cac_medio": "R$ 420",
    "funil_conversao": ["100%% visitantes", "18%% leads", "3,2%% vendas"],
    "ltv_medio": "R$ 1.680",
    "ltv_cac_ratio": "4,0:1",
    "roi_canais": {"facebook": "320%%", "google": "380%%", "youtube": "250%%", "tiktok": "180%%"}
  },
  "voz_mercado": {
    "objecoes": [
      {"objecao": "Objeção específica comum baseada na pesquisa", "contorno": "Como contornar esta objeção"}
    ],
    "linguagem": {
      "termos": ["Termo técnico 1", "Termo técnico 2"],
      "girias": ["Gíria do nicho 1"],
      "gatilhos": ["Gatilho mental 1", "Gatilho mental 2"]
    },
    "crencas_limitantes": ["Crença limitante 1", "Crença limitante 2"]
  },
  "projecoes": {
    "conservador": {"conversao": "2,0%%", "faturamento": "R$ 60.000", "roi": "240%%"},
    "realista": {"conversao": "3,2%%", "faturamento": "R$ 100.000", "roi": "380%%"},
    "otimista": {"conversao": "5,0%%", "faturamento": "R$ 150.000", "roi": "580%%"}
  },
  "plano_acao": [
    {"passo": 1, "acao": "Ação específica e prática 1 baseada na análise", "prazo": "2 semanas"},
    {"passo": 2, "acao": "Ação específica e prática 2 baseada na análise", "prazo": "1 semana"}
  ],
  "insights_pesquisa": {
    "dados_mercado": "Principais insights da pesquisa de mercado",
    "concorrentes_encontrados": "Concorrentes identificados na pesquisa",
    "tendencias_identificadas": "Tendências identificadas na pesquisa",
    "oportunidades_unicas": "Oportunidades únicas identificadas"
  }
}`, niche)
}

package sentiment

// lexEntry carries the valence and subjectivity weight of a lexicon word.
// Valence is in [-4, 4] (VADER convention), subjectivity in [0, 1].
type lexEntry struct {
	Valence      float64
	Subjectivity float64
}

// financialTerms are counted separately as a raw domain-signal feature
var financialTerms = []string{
	"profit", "loss", "growth", "decline", "bear", "bull",
	"dividend", "bankruptcy", "merger", "acquisition", "earnings", "revenue",
}

// negations flip the valence of the following lexicon hit
var negations = map[string]bool{
	"not": true, "no": true, "never": true, "neither": true,
	"nobody": true, "none": true, "cannot": true, "cant": true,
	"wont": true, "without": true, "isnt": true, "doesnt": true,
	"didnt": true, "hardly": true, "barely": true,
}

// boosters scale the valence of the following lexicon hit
var boosters = map[string]float64{
	"very":       1.3,
	"extremely":  1.5,
	"hugely":     1.4,
	"massively":  1.4,
	"sharply":    1.3,
	"strongly":   1.3,
	"slightly":   0.7,
	"somewhat":   0.8,
	"marginally": 0.7,
	"modestly":   0.8,
}

// lexicon is a compact financial-news valence lexicon. General sentiment
// carriers are included alongside domain terms so headline English scores
// sensibly without external model files.
var lexicon = map[string]lexEntry{
	// positive - market action
	"beat":       {2.1, 0.6}, "beats": {2.1, 0.6},
	"surge":      {2.7, 0.7}, "surges": {2.7, 0.7}, "surged": {2.7, 0.7},
	"soar":       {2.9, 0.8}, "soars": {2.9, 0.8}, "soared": {2.9, 0.8},
	"rally":      {2.2, 0.6}, "rallies": {2.2, 0.6}, "rallied": {2.2, 0.6},
	"jump":       {1.9, 0.5}, "jumps": {1.9, 0.5}, "jumped": {1.9, 0.5},
	"gain":       {1.8, 0.4}, "gains": {1.8, 0.4}, "gained": {1.8, 0.4},
	"rise":       {1.5, 0.3}, "rises": {1.5, 0.3}, "rose": {1.5, 0.3},
	"climb":      {1.6, 0.4}, "climbs": {1.6, 0.4}, "climbed": {1.6, 0.4},
	"rebound":    {1.9, 0.5}, "rebounds": {1.9, 0.5},
	"recover":    {1.7, 0.4}, "recovers": {1.7, 0.4}, "recovery": {1.7, 0.4},
	"record":     {1.4, 0.4}, "outperform": {2.0, 0.6}, "outperforms": {2.0, 0.6},
	"upgrade":    {2.0, 0.5}, "upgrades": {2.0, 0.5}, "upgraded": {2.0, 0.5},
	"bullish":    {2.4, 0.8}, "bull": {1.8, 0.6},
	"strong":     {1.8, 0.5}, "stronger": {1.9, 0.5}, "strength": {1.6, 0.4},
	"growth":     {1.7, 0.4}, "grow": {1.5, 0.3}, "grows": {1.5, 0.3},
	"profit":     {1.9, 0.4}, "profits": {1.9, 0.4}, "profitable": {2.1, 0.5},
	"win":        {2.2, 0.6}, "wins": {2.2, 0.6},
	"boom":       {2.5, 0.7}, "booming": {2.6, 0.7},
	"optimism":   {2.0, 0.8}, "optimistic": {2.0, 0.8},
	"positive":   {1.8, 0.6}, "success": {2.2, 0.6}, "successful": {2.2, 0.6},
	"exceed":     {1.9, 0.5}, "exceeds": {1.9, 0.5}, "exceeded": {1.9, 0.5},
	"best":       {2.4, 0.8}, "good": {1.7, 0.6}, "great": {2.3, 0.8},
	"high":       {1.0, 0.3}, "higher": {1.2, 0.3},
	"buy":        {1.3, 0.4}, "dividend": {1.1, 0.2},

	// negative - market action
	"miss":       {-2.0, 0.6}, "misses": {-2.0, 0.6}, "missed": {-2.0, 0.6},
	"plunge":     {-2.9, 0.8}, "plunges": {-2.9, 0.8}, "plunged": {-2.9, 0.8},
	"crash":      {-3.2, 0.9}, "crashes": {-3.2, 0.9}, "crashed": {-3.2, 0.9},
	"tumble":     {-2.5, 0.7}, "tumbles": {-2.5, 0.7}, "tumbled": {-2.5, 0.7},
	"slump":      {-2.4, 0.7}, "slumps": {-2.4, 0.7}, "slumped": {-2.4, 0.7},
	"drop":       {-1.8, 0.4}, "drops": {-1.8, 0.4}, "dropped": {-1.8, 0.4},
	"fall":       {-1.6, 0.3}, "falls": {-1.6, 0.3}, "fell": {-1.6, 0.3},
	"sink":       {-2.2, 0.6}, "sinks": {-2.2, 0.6}, "sank": {-2.2, 0.6},
	"slide":      {-1.8, 0.4}, "slides": {-1.8, 0.4},
	"decline":    {-1.7, 0.4}, "declines": {-1.7, 0.4}, "declined": {-1.7, 0.4},
	"loss":       {-2.0, 0.4}, "losses": {-2.0, 0.4}, "lose": {-1.9, 0.4}, "loses": {-1.9, 0.4},
	"downgrade":  {-2.1, 0.5}, "downgrades": {-2.1, 0.5}, "downgraded": {-2.1, 0.5},
	"bearish":    {-2.4, 0.8}, "bear": {-1.8, 0.6},
	"weak":       {-1.8, 0.5}, "weaker": {-1.9, 0.5}, "weakness": {-1.7, 0.4},
	"risk":       {-1.2, 0.4}, "risks": {-1.2, 0.4}, "risky": {-1.6, 0.6},
	"fear":       {-2.2, 0.7}, "fears": {-2.2, 0.7},
	"warn":       {-1.9, 0.5}, "warns": {-1.9, 0.5}, "warning": {-1.9, 0.5},
	"recession":  {-2.6, 0.6}, "crisis": {-2.8, 0.7},
	"bankruptcy": {-3.4, 0.7}, "bankrupt": {-3.3, 0.7}, "default": {-2.5, 0.5},
	"lawsuit":    {-1.8, 0.4}, "fraud": {-3.0, 0.7}, "scandal": {-2.7, 0.7},
	"recall":     {-1.7, 0.4}, "layoff": {-2.2, 0.5}, "layoffs": {-2.2, 0.5},
	"cut":        {-1.3, 0.3}, "cuts": {-1.3, 0.3},
	"worst":      {-2.6, 0.8}, "bad": {-1.8, 0.6}, "poor": {-1.9, 0.6},
	"low":        {-1.0, 0.3}, "lower": {-1.2, 0.3},
	"sell":       {-1.1, 0.4}, "selloff": {-2.3, 0.6},
	"concern":    {-1.4, 0.5}, "concerns": {-1.4, 0.5},
	"uncertainty": {-1.6, 0.6}, "volatile": {-1.5, 0.5}, "volatility": {-1.3, 0.4},
	"negative":   {-1.8, 0.6}, "plummet": {-3.0, 0.8}, "plummets": {-3.0, 0.8},
}

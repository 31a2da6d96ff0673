package internal

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// readingLevelGuidelines is shared by every template.
const readingLevelGuidelines = `TARGET READING LEVEL: Grade 5-6 (Ages 10-12)

Writing Guidelines:
- Use simple, clear sentences (10-15 words average)
- Avoid complex vocabulary - use everyday words
- Break up long explanations into short paragraphs
- Use concrete examples kids can relate to
- Avoid jargon - explain technical terms simply
- Use active voice ("Scientists discovered" not "It was discovered by scientists")
- Keep paragraphs to 3-4 sentences maximum`

// qaStructure is the four-question answer format shared by every template.
const qaStructure = `Answer these questions in order:

1. **What is this about?**
   Write 2-3 sentences explaining the main topic in simple terms.

2. **Why should I care?**
   Explain in 2-3 sentences why this topic matters or is interesting.

3. **How does it work?**
   Break down the key ideas or processes in 4-5 short bullet points.

4. **What can I learn from this?**
   List 3-4 key takeaways or lessons in simple language.`

// promptTemplateText is the skeleton every template renders. The per-template
// parts (audience, task, domain guidance) are injected alongside the video
// data. Title, channel, and transcript are interpolated verbatim with no
// truncation.
const promptTemplateText = `You are creating a summary for {{.Audience}}.

{{.ReadingLevel}}

VIDEO INFORMATION:
Title: {{.Title}}{{if .Channel}}
Channel: {{.Channel}}{{end}}

TRANSCRIPT:
{{.Transcript}}

TASK:
{{.Task}}

{{.QAStructure}}

{{.Guidance}}

Begin your summary below:`

// PromptData is the data injected into the prompt template.
type PromptData struct {
	Audience     string
	ReadingLevel string
	Title        string
	Channel      string
	Transcript   string
	Task         string
	QAStructure  string
	Guidance     string
}

// Template is one named prompt-rendering strategy. Keywords drive
// auto-detection; templates without keywords never win auto-detection.
type Template struct {
	Name        string
	Description string
	Audience    string
	Task        string
	Guidance    string
	Keywords    []string
}

// DefaultTemplateName is used when no template is named and auto-detection
// scores below threshold.
const DefaultTemplateName = "general"

// autoDetectThreshold is the minimum keyword score a template needs to win
// auto-detection.
const autoDetectThreshold = 2

// PromptManager holds the template registry. Registration order is
// significant: auto-detection ties are broken by earliest registration.
type PromptManager struct {
	order     []string
	templates map[string]*Template
	tmpl      *template.Template
}

// NewPromptManager creates a registry pre-loaded with the built-in templates.
func NewPromptManager() *PromptManager {
	pm := &PromptManager{
		templates: make(map[string]*Template),
		tmpl:      template.Must(template.New("prompt").Parse(promptTemplateText)),
	}
	for _, t := range builtinTemplates() {
		pm.Register(t)
	}
	return pm
}

// Register adds a template to the registry. Re-registering a name replaces
// the template but keeps its original position in the tie-break order.
func (pm *PromptManager) Register(t *Template) {
	if _, exists := pm.templates[t.Name]; !exists {
		pm.order = append(pm.order, t.Name)
	}
	pm.templates[t.Name] = t
}

// Lookup returns the named template, or ErrUnknownTemplate listing the valid
// names.
func (pm *PromptManager) Lookup(name string) (*Template, error) {
	t, ok := pm.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownTemplate, name, strings.Join(pm.Names(), ", "))
	}
	return t, nil
}

// Names returns all registered template names, sorted alphabetically.
func (pm *PromptManager) Names() []string {
	names := make([]string, len(pm.order))
	copy(names, pm.order)
	sort.Strings(names)
	return names
}

// AutoDetect scores every registered template against the lower-cased
// concatenation of title and transcript, counting keyword substring matches.
// The highest score wins if it reaches the threshold, with ties going to the
// earliest-registered template. Below-threshold content falls back to the
// default template.
func (pm *PromptManager) AutoDetect(title, transcript string) string {
	content := strings.ToLower(title + " " + transcript)

	best := DefaultTemplateName
	bestScore := 0
	for _, name := range pm.order {
		t := pm.templates[name]
		score := 0
		for _, kw := range t.Keywords {
			// Substring containment, not word-boundary matching. Short
			// keywords inside longer words also count.
			if strings.Contains(content, kw) {
				score++
			}
		}
		if score > bestScore {
			best = name
			bestScore = score
		}
	}
	if bestScore < autoDetectThreshold {
		return DefaultTemplateName
	}
	return best
}

// BuildPrompt renders the complete instruction string for a video.
func (pm *PromptManager) BuildPrompt(t *Template, title, channel, transcript string) (string, error) {
	data := PromptData{
		Audience:     t.Audience,
		ReadingLevel: readingLevelGuidelines,
		Title:        title,
		Channel:      channel,
		Transcript:   transcript,
		Task:         t.Task,
		QAStructure:  qaStructure,
		Guidance:     t.Guidance,
	}
	var buf bytes.Buffer
	if err := pm.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}
	return buf.String(), nil
}

// builtinTemplates returns the built-in registry in declaration order. The
// general template comes first but carries no keywords, so it only wins as
// the fallback.
func builtinTemplates() []*Template {
	return []*Template{
		{
			Name:        "general",
			Description: "General template for educational content",
			Audience:    "kids aged 8-11 who want to learn from YouTube videos",
			Task:        "Create a kid-friendly summary that makes this content easy to understand.",
			Guidance: `IMPORTANT:
- Write at a Grade 5-6 reading level (like you're talking to a 10-year-old)
- Use simple words and short sentences
- Make it engaging and fun to read
- Focus on the most interesting and important ideas
- Skip boring or overly technical parts
- Use examples kids can relate to`,
		},
		{
			Name:        "tech_ai",
			Description: "Template for technology and AI content",
			Audience:    "kids aged 8-11 who are curious about computers, AI, and technology",
			Task:        "Create a kid-friendly summary that explains this technology in a way kids can understand.",
			Guidance: `TECH-SPECIFIC GUIDELINES:
- Compare technology to everyday things kids know (e.g., "AI is like a super smart robot brain")
- Break down complex tech terms into simple ideas
- Use analogies and comparisons kids can relate to
- Focus on what the technology DOES, not how it's programmed
- Make it sound exciting and cool (because tech IS cool!)
- Avoid: code, algorithms, technical jargon
- Include: real-world examples, fun facts, "Did you know?" moments`,
			Keywords: []string{
				"ai", "artificial intelligence", "machine learning", "robot",
				"computer", "software", "algorithm", "programming", "code",
				"technology", "digital", "internet", "app", "data", "neural",
			},
		},
		{
			Name:        "finance",
			Description: "Template for finance and economics content",
			Audience:    "kids aged 8-11 who want to learn about money and how the world of business works",
			Task:        "Create a kid-friendly summary that explains these money concepts in a way kids can understand.",
			Guidance: `FINANCE-SPECIFIC GUIDELINES:
- Use examples with allowance, saving, or buying things kids want
- Compare financial concepts to simple trades or exchanges
- Avoid: stock tickers, complex market terms, percentages
- Include: real-world examples kids can relate to
- Make connections to things kids do (saving, spending, earning)
- Use simple comparisons (e.g., "The stock market is like a big store where people buy tiny pieces of companies")
- Focus on the big picture, not detailed numbers
- Make it practical and relevant to kids' lives`,
			Keywords: []string{
				"money", "dollar", "invest", "stock", "market", "bitcoin",
				"crypto", "economy", "finance", "business", "bank", "trade",
				"price", "cost", "wealth", "profit", "revenue",
			},
		},
		{
			Name:        "science",
			Description: "Template for science and nature content",
			Audience:    "kids aged 8-11 who love discovering how the natural world works",
			Task:        "Create a kid-friendly summary that explains this science in a way kids can understand.",
			Guidance: `SCIENCE-SPECIFIC GUIDELINES:
- Connect discoveries to things kids see every day
- Explain experiments as simple step-by-step stories
- Avoid: formulas, measurement units kids don't know, Latin names
- Include: surprising facts and "wow" moments
- Encourage curiosity with questions kids could explore themselves`,
			Keywords: []string{
				"science", "experiment", "chemistry", "biology", "physics",
				"nature", "animal", "plant", "cell", "energy", "climate",
				"evolution", "scientist", "research", "discovery",
			},
		},
		{
			Name:        "history",
			Description: "Template for history and culture content",
			Audience:    "kids aged 8-11 who enjoy stories about the past",
			Task:        "Create a kid-friendly summary that tells this history like an exciting story.",
			Guidance: `HISTORY-SPECIFIC GUIDELINES:
- Tell events as a story with a beginning, middle, and end
- Compare past life to how kids live today
- Avoid: long lists of dates and names
- Include: what daily life was like for kids back then
- Explain why the events still matter today`,
			Keywords: []string{
				"history", "ancient", "war", "empire", "king", "queen",
				"revolution", "century", "civilization", "medieval",
				"historical", "dynasty", "archaeology", "museum",
			},
		},
		{
			Name:        "gaming",
			Description: "Template for video game content",
			Audience:    "kids aged 8-11 who love video games",
			Task:        "Create a kid-friendly summary that captures what makes this game content fun.",
			Guidance: `GAMING-SPECIFIC GUIDELINES:
- Explain gameplay in terms of goals and challenges
- Compare mechanics to games or activities kids already know
- Avoid: frame rates, hardware specs, monetization details
- Include: fun strategies and creative ideas from the video
- Keep the excitement of the game in the summary`,
			Keywords: []string{
				"game", "gaming", "minecraft", "fortnite", "roblox", "player",
				"level", "console", "nintendo", "playstation", "xbox",
				"speedrun", "multiplayer", "gamer",
			},
		},
		{
			Name:        "cooking",
			Description: "Template for cooking and food content",
			Audience:    "kids aged 8-11 who are curious about food and cooking",
			Task:        "Create a kid-friendly summary that explains this food content simply.",
			Guidance: `COOKING-SPECIFIC GUIDELINES:
- Describe recipes as simple ordered steps
- Explain ingredients kids might not know
- Avoid: precise measurements and professional techniques
- Include: safety notes when heat or knives are involved
- Make the food sound delicious and fun to try`,
			Keywords: []string{
				"cook", "cooking", "recipe", "food", "bake", "baking",
				"kitchen", "ingredient", "chef", "meal", "dish", "flavor",
				"delicious", "restaurant",
			},
		},
		{
			Name:        "sports",
			Description: "Template for sports and fitness content",
			Audience:    "kids aged 8-11 who enjoy sports and being active",
			Task:        "Create a kid-friendly summary that explains this sports content clearly.",
			Guidance: `SPORTS-SPECIFIC GUIDELINES:
- Explain rules and plays in simple terms
- Focus on teamwork, effort, and sportsmanship
- Avoid: detailed statistics and league jargon
- Include: what kids can practice themselves
- Keep the energy and excitement of the game`,
			Keywords: []string{
				"sport", "sports", "soccer", "football", "basketball",
				"baseball", "tennis", "athlete", "team", "championship",
				"olympic", "coach", "training", "fitness",
			},
		},
		{
			Name:        "music",
			Description: "Template for music content",
			Audience:    "kids aged 8-11 who are interested in music",
			Task:        "Create a kid-friendly summary that explains this music content simply.",
			Guidance: `MUSIC-SPECIFIC GUIDELINES:
- Describe sounds and instruments with everyday comparisons
- Avoid: music theory terms and notation
- Include: how the music makes people feel
- Mention instruments kids could try
- Make listening sound fun and approachable`,
			Keywords: []string{
				"music", "song", "instrument", "guitar", "piano", "drum",
				"singer", "band", "melody", "rhythm", "concert", "orchestra",
				"musician", "album",
			},
		},
		{
			Name:        "space",
			Description: "Template for space and astronomy content",
			Audience:    "kids aged 8-11 who are fascinated by space",
			Task:        "Create a kid-friendly summary that makes this space content easy to imagine.",
			Guidance: `SPACE-SPECIFIC GUIDELINES:
- Compare cosmic sizes and distances to familiar things
- Avoid: equations and precise astronomical figures
- Include: mind-blowing facts about the universe
- Explain missions as adventures with goals
- Spark wonder about what is still unknown`,
			Keywords: []string{
				"space", "planet", "star", "galaxy", "nasa", "rocket",
				"astronaut", "moon", "mars", "orbit", "telescope", "universe",
				"asteroid", "solar system",
			},
		},
	}
}

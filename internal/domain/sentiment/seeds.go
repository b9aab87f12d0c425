package sentiment

// TopicSeed maps a monitored topic to the lexical triggers that surface it.
// Matching is permissive case-insensitive substring search.
type TopicSeed struct {
	Name     string
	Triggers []string
}

// RegionSeed maps a region to the place names that identify it. Seeds are
// checked in declared order and the first hit wins, so the order below is
// part of the configuration, not incidental.
type RegionSeed struct {
	ID     string
	Places []string
}

// Category groups topics under a higher-level label. Categories are checked
// in declared order and a post belongs to the first category whose topic
// set intersects the post's matched topics.
type Category struct {
	Name   string
	Topics []string
}

// TopicSeeds is the broad topic dictionary. Only topics with actual
// matches surface in a snapshot.
var TopicSeeds = []TopicSeed{
	{Name: "border security", Triggers: []string{"border", "wall", "immigration", "migrant", "crossing", "deportation", "ice", "cbp", "asylum"}},
	{Name: "energy & grid", Triggers: []string{"ercot", "grid", "power outage", "energy", "electricity", "blackout", "solar", "wind farm", "oil", "natural gas", "pipeline"}},
	{Name: "education", Triggers: []string{"school", "education", "teacher", "voucher", "curriculum", "student", "university", "tuition", "isd"}},
	{Name: "healthcare", Triggers: []string{"healthcare", "medicaid", "hospital", "insurance", "clinic", "mental health", "drug price", "pharmaceutical"}},
	{Name: "economy & jobs", Triggers: []string{"economy", "jobs", "unemployment", "inflation", "housing market", "wage", "business", "recession"}},
	{Name: "abortion", Triggers: []string{"abortion", "reproductive", "roe", "planned parenthood", "pro-life", "pro-choice"}},
	{Name: "gun policy", Triggers: []string{"gun", "firearm", "shooting", "second amendment", "2a", "nra", "open carry"}},
	{Name: "water & drought", Triggers: []string{"water", "drought", "flood", "reservoir", "aquifer", "water supply", "water rights"}},
	{Name: "crime & safety", Triggers: []string{"crime", "police", "prison", "arrest", "murder", "fentanyl", "cartel", "gang"}},
	{Name: "elections", Triggers: []string{"vote", "election", "ballot", "primary", "campaign", "polling", "runoff", "voter"}},
	{Name: "housing", Triggers: []string{"housing", "homeless", "rent", "mortgage", "affordable housing", "zoning", "eviction"}},
	{Name: "transportation", Triggers: []string{"highway", "i-35", "traffic", "transit", "txdot", "toll road", "high speed rail"}},
	{Name: "property tax", Triggers: []string{"property tax", "appraisal", "homestead", "tax relief", "tax rate"}},
	{Name: "tech & innovation", Triggers: []string{"tech", "ai", "startup", "spacex", "tesla", "semiconductor", "data center"}},
}

// RegionSeeds lists the Texas regions in their canonical match order.
var RegionSeeds = []RegionSeed{
	{ID: "gulf-coast", Places: []string{"houston", "galveston", "beaumont", "pasadena", "sugar land", "woodlands", "katy", "baytown", "pearland", "league city", "port arthur", "corpus christi", "htx", "htown"}},
	{ID: "north-texas", Places: []string{"dallas", "fort worth", "plano", "arlington", "denton", "frisco", "mckinney", "garland", "irving", "dfw", "richardson"}},
	{ID: "central-texas", Places: []string{"austin", "waco", "san marcos", "round rock", "temple", "killeen", "georgetown", "pflugerville", "atx"}},
	{ID: "south-texas", Places: []string{"san antonio", "laredo", "mcallen", "brownsville", "harlingen", "rgv", "rio grande", "edinburg", "satx"}},
	{ID: "west-texas", Places: []string{"el paso", "midland", "odessa", "lubbock", "amarillo", "abilene", "san angelo"}},
	{ID: "east-texas", Places: []string{"tyler", "longview", "nacogdoches", "lufkin", "texarkana", "marshall", "etx"}},
}

// RegionLabels maps region IDs to their display labels.
var RegionLabels = map[string]string{
	"gulf-coast":    "Houston / Gulf Coast",
	"north-texas":   "Dallas-Fort Worth",
	"central-texas": "Austin / Central TX",
	"south-texas":   "San Antonio / South TX",
	"west-texas":    "West Texas",
	"east-texas":    "East Texas",
}

// Categories is the ordered category table. A post contributes to at most
// one category even when several topic sets would match.
var Categories = []Category{
	{Name: "Cost of Living", Topics: []string{"housing", "property tax"}},
	{Name: "Economy", Topics: []string{"economy & jobs", "energy & grid"}},
	{Name: "Health Care", Topics: []string{"healthcare"}},
	{Name: "Education", Topics: []string{"education"}},
}

// PositiveWords and NegativeWords are the fixed sentiment lexicons.
// Hits are counted whole-word, case-insensitive.
var PositiveWords = []string{"great", "good", "excellent", "strong", "positive", "support", "success", "win", "approve", "progress", "reform", "boost", "improve", "protect", "secure", "benefit", "growth"}

var NegativeWords = []string{"bad", "poor", "failed", "weak", "negative", "crisis", "disaster", "corrupt", "scandal", "oppose", "reject", "waste", "broken", "dangerous", "threat", "attack", "fear", "decline"}

// SampleMentions seeds the demo data generator with plausible headlines.
var SampleMentions = map[string][]string{
	"border security": {
		"Texas border crossings hit new daily record amid federal policy debate",
		"Governor deploys additional National Guard to border region",
		"Border security funding bill advances through state legislature",
	},
	"energy & grid": {
		"ERCOT issues conservation alert as summer temperatures surge",
		"Texas wind farms generate record power output this quarter",
		"Grid reliability concerns as new data centers strain capacity",
	},
	"education": {
		"School voucher bill faces final vote in Texas House",
		"Teacher shortage reaches critical levels in rural districts",
		"State funding increase approved for public school districts",
	},
	"healthcare": {
		"Rural hospital closures accelerate across East Texas",
		"Medicaid expansion debate resurfaces in legislature",
		"Mental health funding bill gains bipartisan support",
	},
	"economy & jobs": {
		"Texas unemployment falls to lowest level in two years",
		"Tech layoffs hit Austin hard as major firms restructure",
		"Small business growth surges in DFW metro area",
	},
	"abortion": {
		"New legal challenge filed against state abortion restrictions",
		"Reproductive healthcare access varies widely by region",
		"Abortion debate dominates primary campaign messaging",
	},
	"gun policy": {
		"Open carry expansion bill introduced in special session",
		"Gun violence prevention advocates rally at state capitol",
		"School safety measures debated after recent incidents",
	},
	"water & drought": {
		"West Texas water levels drop to historic lows",
		"State water board approves new conservation measures",
		"Drought conditions expand across Panhandle region",
	},
	"crime & safety": {
		"Fentanyl seizures surge along southern corridor",
		"Police staffing shortages hit major metro areas",
		"Property crime rates diverge between urban and suburban areas",
	},
	"elections": {
		"Early voting turnout surpasses midterm projections",
		"Redistricting challenges head to federal court",
		"Campaign spending hits record levels in state races",
	},
	"housing": {
		"Housing affordability crisis deepens in Austin metro",
		"Houston homelessness numbers show slight decline",
		"New zoning proposals face pushback in Dallas suburbs",
	},
	"property tax": {
		"Property appraisals jump 15% in major metro areas",
		"Homestead exemption increase signed into law",
		"Tax relief measures face implementation challenges",
	},
	"transportation": {
		"I-35 expansion project enters controversial new phase",
		"High speed rail proposal between Houston and Dallas revived",
		"TxDOT announces major highway funding allocation",
	},
	"tech & innovation": {
		"New semiconductor fab breaks ground outside Austin",
		"AI startups flock to Texas amid favorable business climate",
		"SpaceX Starbase expansion draws mixed reactions in South TX",
	},
}

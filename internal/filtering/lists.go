package filtering

import "github.com/jonathan/jobscout/internal/types"

// Lists holds the token sets the location classifier evaluates. All tokens
// are matched against the lower-cased, accent-folded location string.
type Lists struct {
	// NonUSA tokens reject on substring match and take priority over USA tokens.
	NonUSA []string
	// USA tokens accept on substring match.
	USA []string
	// BareRemote values reject when they are the entire location string.
	BareRemote []string
}

// DefaultLists returns a fresh copy of the built-in token sets.
func DefaultLists() Lists {
	return Lists{
		NonUSA:     append([]string(nil), defaultNonUSA...),
		USA:        append([]string(nil), defaultUSA...),
		BareRemote: append([]string(nil), defaultBareRemote...),
	}
}

// Extend returns a copy of l with the configured extra tokens appended.
func (l Lists) Extend(extra types.LocationLists) Lists {
	return Lists{
		NonUSA:     append(append([]string(nil), l.NonUSA...), extra.NonUSA...),
		USA:        append(append([]string(nil), l.USA...), extra.USA...),
		BareRemote: append([]string(nil), l.BareRemote...),
	}
}

var defaultBareRemote = []string{"remote", "anywhere", "worldwide", "global", "work from home"}

var defaultNonUSA = []string{
	// countries
	"india", "canada", "uk", "united kingdom", "germany", "france", "australia",
	"singapore", "ireland", "netherlands", "spain", "poland", "brazil", "mexico",
	"china", "japan", "korea", "sweden", "norway", "denmark", "finland", "italy",
	"portugal", "switzerland", "austria", "belgium", "czech", "hungary", "romania",
	"ukraine", "turkey", "israel", "uae", "dubai", "saudi", "egypt", "south africa",
	"philippines", "indonesia", "malaysia", "thailand", "vietnam", "pakistan",
	"bangladesh", "sri lanka", "nepal", "new zealand", "argentina", "colombia",
	"chile", "peru", "russia",
	// india
	"bangalore", "bengaluru", "hyderabad", "mumbai", "pune", "chennai", "delhi",
	"noida", "gurgaon", "gurugram", "kolkata", "ahmedabad", "jaipur", "kochi",
	"coimbatore", "indore", "bhopal", "nagpur", "surat", "vadodara", "lucknow",
	"chandigarh", "bhubaneswar", "thiruvananthapuram", "visakhapatnam",
	"secunderabad", "mysore", "mangalore", "hubli", "belgaum", "nashik",
	// canada
	"toronto", "vancouver", "montreal", "calgary", "ottawa", "edmonton", "winnipeg",
	"ontario", "quebec", "british columbia", "alberta", "manitoba", "nova scotia",
	// united kingdom
	"london", "manchester", "birmingham", "glasgow", "edinburgh", "bristol",
	"leeds", "liverpool", "sheffield", "cardiff", "belfast",
	// elsewhere
	"berlin", "munich", "frankfurt", "hamburg", "paris", "lyon", "marseille",
	"amsterdam", "rotterdam", "brussels", "zurich", "geneva", "vienna", "stockholm",
	"oslo", "copenhagen", "helsinki", "sydney", "melbourne", "brisbane", "perth",
	"auckland", "wellington", "tel aviv", "singapore city",
	"hong kong", "taipei", "shanghai", "beijing", "tokyo", "seoul", "jakarta",
	"kuala lumpur", "bangkok", "manila", "ho chi minh", "karachi", "lahore",
	"dhaka", "colombo", "kathmandu", "cairo", "lagos", "nairobi", "johannesburg",
}

var defaultUSA = []string{
	// country identifiers
	"united states", "usa", "u.s.a", "u.s.",
	// remote phrasing
	"remote - us", "remote, us", "remote (us", "us remote",
	"remote - united states", "remote, united states",
	"work from home - us", "anywhere in the us",
	// states
	"alabama", "alaska", "arizona", "arkansas", "california", "colorado",
	"connecticut", "delaware", "florida", "georgia", "hawaii", "idaho",
	"illinois", "indiana", "iowa", "kansas", "kentucky", "louisiana", "maine",
	"maryland", "massachusetts", "michigan", "minnesota", "mississippi",
	"missouri", "montana", "nebraska", "nevada", "new hampshire", "new jersey",
	"new mexico", "new york", "north carolina", "north dakota", "ohio",
	"oklahoma", "oregon", "pennsylvania", "rhode island", "south carolina",
	"south dakota", "tennessee", "texas", "utah", "vermont", "virginia",
	"washington", "west virginia", "wisconsin", "wyoming",
	"district of columbia", "washington dc", "washington d.c.",
	// state abbreviations, comma-prefixed
	", al", ", ak", ", az", ", ar", ", ca", ", co", ", ct", ", de",
	", fl", ", ga", ", hi", ", id", ", il", ", in", ", ia", ", ks",
	", ky", ", la", ", me", ", md", ", ma", ", mi", ", mn", ", ms",
	", mo", ", mt", ", ne", ", nv", ", nh", ", nj", ", nm", ", ny",
	", nc", ", nd", ", oh", ", ok", ", or", ", pa", ", ri", ", sc",
	", sd", ", tn", ", tx", ", ut", ", vt", ", va", ", wa", ", wv",
	", wi", ", wy", ", dc",
	// cities
	"new york city", "new york, ny", "nyc", "manhattan", "brooklyn", "queens",
	"san francisco", "sf bay", "bay area", "silicon valley", "san jose",
	"los angeles", "la, ca", "santa monica", "west hollywood",
	"seattle", "bellevue", "redmond", "kirkland",
	"austin", "dallas", "houston", "san antonio", "fort worth",
	"chicago", "naperville", "evanston",
	"boston", "cambridge, ma", "somerville", "waltham",
	"denver", "boulder", "colorado springs",
	"atlanta", "alpharetta", "buckhead",
	"miami", "fort lauderdale", "boca raton", "orlando", "tampa", "jacksonville",
	"charlotte", "raleigh", "durham", "research triangle",
	"phoenix", "scottsdale", "tempe", "chandler",
	"philadelphia", "pittsburgh",
	"minneapolis", "st paul", "twin cities",
	"nashville", "memphis", "knoxville",
	"portland, or", "portland, oregon",
	"salt lake city", "provo",
	"las vegas", "reno",
	"san diego", "la jolla",
	"detroit", "ann arbor", "grand rapids",
	"columbus, oh", "cleveland", "cincinnati",
	"kansas city", "st louis", "saint louis",
	"indianapolis", "fort wayne",
	"louisville", "lexington",
	"richmond, va", "norfolk", "virginia beach",
	"hartford", "new haven", "stamford",
	"providence, ri", "worcester",
	"albany, ny", "buffalo, ny", "rochester, ny",
	"albuquerque", "santa fe",
	"omaha", "lincoln, ne",
	"tulsa", "oklahoma city",
	"little rock", "fayetteville, ar",
	"boise", "idaho falls",
	"billings", "missoula",
	"des moines", "iowa city",
	"madison, wi", "milwaukee", "green bay",
	"honolulu", "anchorage",
}

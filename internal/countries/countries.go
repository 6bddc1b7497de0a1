// Package countries holds the static ISO alpha-2 country metadata used to
// derive canonical country names and bubble-map coordinates.
package countries

// Country is the static metadata for one country.
type Country struct {
	Alpha2  string
	Name    string
	Demonym string
	Lat     float64
	Lon     float64
}

// Lookup returns the metadata for an ISO alpha-2 code.
func Lookup(alpha2 string) (Country, bool) {
	c, ok := table[alpha2]
	return c, ok
}

// Coordinate returns the map coordinate for an ISO alpha-2 code.
func Coordinate(alpha2 string) (lat, lon float64, ok bool) {
	c, found := table[alpha2]
	if !found {
		return 0, 0, false
	}
	return c.Lat, c.Lon, true
}

// Coordinates are nominally the capital of each country, nudged where two
// capitals would overlap on the bubble map.
var table = map[string]Country{
	"AF": {"AF", "Afghanistan", "Afghan", 34.5281, 69.1723},
	"AO": {"AO", "Angola", "Angolan", -8.8390, 13.2894},
	"AR": {"AR", "Argentina", "Argentine", -34.6037, -58.3816},
	"AU": {"AU", "Australia", "Australian", -35.2809, 149.1300},
	"BD": {"BD", "Bangladesh", "Bangladeshi", 23.8103, 90.4125},
	"BE": {"BE", "Belgium", "Belgian", 50.8503, 4.3517},
	"BF": {"BF", "Burkina Faso", "Burkinabe", 12.3714, -1.5197},
	"BI": {"BI", "Burundi", "Burundian", -3.3731, 29.9189},
	"BJ": {"BJ", "Benin", "Beninese", 6.4969, 2.6283},
	"BO": {"BO", "Bolivia", "Bolivian", -16.4897, -68.1193},
	"BR": {"BR", "Brazil", "Brazilian", -15.8267, -47.9218},
	"BW": {"BW", "Botswana", "Motswana", -24.6282, 25.9231},
	"CA": {"CA", "Canada", "Canadian", 45.4215, -75.6972},
	"CD": {"CD", "DR Congo", "Congolese", -4.4419, 15.2663},
	"CF": {"CF", "Central African Republic", "Central African", 4.3947, 18.5582},
	"CG": {"CG", "Congo", "Congolese", -4.2634, 15.2429},
	"CH": {"CH", "Switzerland", "Swiss", 46.9480, 7.4474},
	"CI": {"CI", "Ivory Coast", "Ivorian", 6.8276, -5.2893},
	"CL": {"CL", "Chile", "Chilean", -33.4489, -70.6693},
	"CM": {"CM", "Cameroon", "Cameroonian", 3.8480, 11.5021},
	"CN": {"CN", "China", "Chinese", 39.9042, 116.4074},
	"CO": {"CO", "Colombia", "Colombian", 4.7110, -74.0721},
	"CR": {"CR", "Costa Rica", "Costa Rican", 9.9281, -84.0907},
	"CU": {"CU", "Cuba", "Cuban", 23.1136, -82.3666},
	"DE": {"DE", "Germany", "German", 52.5200, 13.4050},
	"DK": {"DK", "Denmark", "Danish", 55.6761, 12.5683},
	"DO": {"DO", "Dominican Republic", "Dominican", 18.4861, -69.9312},
	"DZ": {"DZ", "Algeria", "Algerian", 36.7538, 3.0588},
	"EC": {"EC", "Ecuador", "Ecuadorian", -0.1807, -78.4678},
	"EG": {"EG", "Egypt", "Egyptian", 30.0444, 31.2357},
	"ES": {"ES", "Spain", "Spanish", 40.4168, -3.7038},
	"ET": {"ET", "Ethiopia", "Ethiopian", 8.9806, 38.7578},
	"FR": {"FR", "France", "French", 48.8566, 2.3522},
	"GB": {"GB", "United Kingdom", "British", 51.5074, -0.1278},
	"GH": {"GH", "Ghana", "Ghanaian", 5.6037, -0.1870},
	"GM": {"GM", "Gambia", "Gambian", 13.4549, -16.5790},
	"GN": {"GN", "Guinea", "Guinean", 9.6412, -13.5784},
	"GT": {"GT", "Guatemala", "Guatemalan", 14.6349, -90.5069},
	"HN": {"HN", "Honduras", "Honduran", 14.0723, -87.1921},
	"HT": {"HT", "Haiti", "Haitian", 18.5944, -72.3074},
	"ID": {"ID", "Indonesia", "Indonesian", -6.2088, 106.8456},
	"IN": {"IN", "India", "Indian", 28.6139, 77.2090},
	"IQ": {"IQ", "Iraq", "Iraqi", 33.3152, 44.3661},
	"IR": {"IR", "Iran", "Iranian", 35.6892, 51.3890},
	"IT": {"IT", "Italy", "Italian", 41.9028, 12.4964},
	"JM": {"JM", "Jamaica", "Jamaican", 18.0179, -76.8099},
	"JO": {"JO", "Jordan", "Jordanian", 31.9454, 35.9284},
	"JP": {"JP", "Japan", "Japanese", 35.6762, 139.6503},
	"KE": {"KE", "Kenya", "Kenyan", -1.2921, 36.8219},
	"KH": {"KH", "Cambodia", "Cambodian", 11.5564, 104.9282},
	"LB": {"LB", "Lebanon", "Lebanese", 33.8938, 35.5018},
	"LK": {"LK", "Sri Lanka", "Sri Lankan", 6.9271, 79.8612},
	"LR": {"LR", "Liberia", "Liberian", 6.3004, -10.7969},
	"LS": {"LS", "Lesotho", "Mosotho", -29.3101, 27.4786},
	"MA": {"MA", "Morocco", "Moroccan", 33.9716, -6.8498},
	"MG": {"MG", "Madagascar", "Malagasy", -18.8792, 47.5079},
	"ML": {"ML", "Mali", "Malian", 12.6392, -8.0029},
	"MM": {"MM", "Myanmar", "Burmese", 16.8661, 96.1951},
	"MW": {"MW", "Malawi", "Malawian", -13.9626, 33.7741},
	"MX": {"MX", "Mexico", "Mexican", 19.4326, -99.1332},
	"MZ": {"MZ", "Mozambique", "Mozambican", -25.8919, 32.6051},
	"NE": {"NE", "Niger", "Nigerien", 13.5116, 2.1254},
	"NG": {"NG", "Nigeria", "Nigerian", 9.0765, 7.3986},
	"NI": {"NI", "Nicaragua", "Nicaraguan", 12.1150, -86.2362},
	"NL": {"NL", "Netherlands", "Dutch", 52.3676, 4.9041},
	"NP": {"NP", "Nepal", "Nepali", 27.7172, 85.3240},
	"PE": {"PE", "Peru", "Peruvian", -12.0464, -77.0428},
	"PH": {"PH", "Philippines", "Filipino", 14.5995, 120.9842},
	"PK": {"PK", "Pakistan", "Pakistani", 33.6844, 73.0479},
	"PL": {"PL", "Poland", "Polish", 52.2297, 21.0122},
	"PT": {"PT", "Portugal", "Portuguese", 38.7223, -9.1393},
	"PY": {"PY", "Paraguay", "Paraguayan", -25.2637, -57.5759},
	"RW": {"RW", "Rwanda", "Rwandan", -1.9441, 30.0619},
	"SD": {"SD", "Sudan", "Sudanese", 15.5007, 32.5599},
	"SE": {"SE", "Sweden", "Swedish", 59.3293, 18.0686},
	"SL": {"SL", "Sierra Leone", "Sierra Leonean", 8.4657, -13.2317},
	"SN": {"SN", "Senegal", "Senegalese", 14.7167, -17.4677},
	"SO": {"SO", "Somalia", "Somali", 2.0469, 45.3182},
	"SS": {"SS", "South Sudan", "South Sudanese", 4.8594, 31.5713},
	"SV": {"SV", "El Salvador", "Salvadoran", 13.6929, -89.2182},
	"SY": {"SY", "Syria", "Syrian", 33.5138, 36.2765},
	"TD": {"TD", "Chad", "Chadian", 12.1348, 15.0557},
	"TG": {"TG", "Togo", "Togolese", 6.1256, 1.2254},
	"TH": {"TH", "Thailand", "Thai", 13.7563, 100.5018},
	"TR": {"TR", "Turkey", "Turkish", 39.9334, 32.8597},
	"TZ": {"TZ", "Tanzania", "Tanzanian", -6.7924, 39.2083},
	"UA": {"UA", "Ukraine", "Ukrainian", 50.4501, 30.5234},
	"UG": {"UG", "Uganda", "Ugandan", 0.3476, 32.5825},
	"US": {"US", "United States", "American", 38.9072, -77.0369},
	"VE": {"VE", "Venezuela", "Venezuelan", 10.4806, -66.9036},
	"VN": {"VN", "Vietnam", "Vietnamese", 21.0285, 105.8542},
	"YE": {"YE", "Yemen", "Yemeni", 15.3694, 44.1910},
	"ZA": {"ZA", "South Africa", "South African", -25.7479, 28.2293},
	"ZM": {"ZM", "Zambia", "Zambian", -15.3875, 28.3228},
	"ZW": {"ZW", "Zimbabwe", "Zimbabwean", -17.8252, 31.0335},
}

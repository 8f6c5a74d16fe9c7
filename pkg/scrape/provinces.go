package scrape

import "strings"

// Dutch postal codes encode the region in their first two digits. The table
// is coarse (postal districts do not follow province borders exactly) but
// good enough for the province field of a listing.
var postalCodeProvince = map[string]string{
	"10": "Noord-Holland", "11": "Zuid-Holland", "12": "Zuid-Holland",
	"13": "Noord-Holland", "14": "Noord-Holland", "15": "Noord-Holland",
	"16": "Noord-Holland", "17": "Noord-Holland", "18": "Noord-Holland",
	"19": "Noord-Holland", "20": "Zuid-Holland", "21": "Zuid-Holland",
	"22": "Zuid-Holland", "23": "Zuid-Holland", "24": "Zuid-Holland",
	"25": "Zuid-Holland", "26": "Zuid-Holland", "27": "Zuid-Holland",
	"28": "Zuid-Holland", "29": "Zuid-Holland", "30": "Utrecht",
	"31": "Utrecht", "32": "Utrecht", "33": "Utrecht", "34": "Utrecht",
	"35": "Utrecht", "36": "Utrecht", "37": "Utrecht", "38": "Gelderland",
	"39": "Gelderland", "40": "Gelderland", "41": "Gelderland",
	"42": "Gelderland", "43": "Gelderland", "44": "Gelderland",
	"50": "Limburg", "51": "Limburg", "52": "Limburg", "53": "Limburg",
	"54": "Limburg", "55": "Limburg", "56": "Limburg", "57": "Limburg",
	"58": "Limburg", "59": "Limburg", "60": "Limburg", "61": "Limburg",
	"62": "Limburg", "63": "Limburg", "64": "Limburg", "65": "Limburg",
	"66": "Limburg", "70": "Noord-Brabant", "71": "Noord-Brabant",
	"72": "Noord-Brabant", "73": "Noord-Brabant", "74": "Noord-Brabant",
	"75": "Noord-Brabant", "76": "Noord-Brabant", "77": "Noord-Brabant",
	"78": "Zeeland", "79": "Zeeland", "80": "Overijssel", "81": "Overijssel",
	"82": "Drenthe", "83": "Drenthe", "84": "Friesland", "85": "Friesland",
	"86": "Friesland", "87": "Friesland", "88": "Friesland",
	"89": "Friesland", "90": "Groningen", "91": "Groningen",
	"92": "Groningen", "93": "Groningen", "94": "Drenthe",
	"95": "Flevoland", "96": "Overijssel", "97": "Overijssel",
}

// Fallback when no postal code was found on the page: well-known place
// names mapped to their province.
var placeProvince = map[string]string{
	// Noord-Holland
	"amsterdam": "Noord-Holland", "haarlem": "Noord-Holland", "zaandam": "Noord-Holland",
	"alkmaar": "Noord-Holland", "hoorn": "Noord-Holland", "purmerend": "Noord-Holland",
	"heerhugowaard": "Noord-Holland", "beverwijk": "Noord-Holland", "enkhuizen": "Noord-Holland",
	"spanbroek": "Noord-Holland", "andijk": "Noord-Holland", "wervershoof": "Noord-Holland",
	"landsmeer": "Noord-Holland",
	// Zuid-Holland
	"rotterdam": "Zuid-Holland", "den haag": "Zuid-Holland", "leiden": "Zuid-Holland",
	"dordrecht": "Zuid-Holland", "zoetermeer": "Zuid-Holland", "delft": "Zuid-Holland",
	"gouda": "Zuid-Holland", "schiedam": "Zuid-Holland", "alphen aan den rijn": "Zuid-Holland",
	// Utrecht
	"utrecht": "Utrecht", "amersfoort": "Utrecht", "veenendaal": "Utrecht",
	"nieuwegein": "Utrecht", "zeist": "Utrecht", "woerden": "Utrecht",
	"bilthoven": "Utrecht", "soest": "Utrecht", "bunnik": "Utrecht",
	// Gelderland
	"arnhem": "Gelderland", "nijmegen": "Gelderland", "apeldoorn": "Gelderland",
	"ede": "Gelderland", "doetinchem": "Gelderland", "zutphen": "Gelderland",
	// Noord-Brabant
	"eindhoven": "Noord-Brabant", "tilburg": "Noord-Brabant", "breda": "Noord-Brabant",
	"den bosch": "Noord-Brabant", "'s-hertogenbosch": "Noord-Brabant", "helmond": "Noord-Brabant",
	// Limburg
	"maastricht": "Limburg", "venlo": "Limburg", "sittard": "Limburg",
	"heerlen": "Limburg", "roermond": "Limburg", "weert": "Limburg",
	// Zeeland
	"middelburg": "Zeeland", "vlissingen": "Zeeland", "terneuzen": "Zeeland",
	"goes": "Zeeland",
	// Friesland
	"leeuwarden": "Friesland", "sneek": "Friesland", "heerenveen": "Friesland",
	// Groningen
	"groningen": "Groningen", "hoogezand": "Groningen", "veendam": "Groningen",
	// Drenthe
	"assen": "Drenthe", "emmen": "Drenthe", "hoogeveen": "Drenthe",
	// Overijssel
	"zwolle": "Overijssel", "enschede": "Overijssel", "hengelo": "Overijssel",
	"almelo": "Overijssel", "deventer": "Overijssel",
	// Flevoland
	"almere": "Flevoland", "lelystad": "Flevoland", "dronten": "Flevoland",
}

// ProvinceForPostalCode maps a Dutch postal code ("6711 AB") to a province,
// or "" when the prefix is unknown.
func ProvinceForPostalCode(postalCode string) string {
	if len(postalCode) < 2 {
		return ""
	}
	return postalCodeProvince[postalCode[:2]]
}

// ProvinceForPlace maps a place name to a province, or "" when unknown.
func ProvinceForPlace(place string) string {
	return placeProvince[strings.ToLower(strings.TrimSpace(place))]
}

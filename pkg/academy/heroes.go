package academy

import "strings"

// heroNames maps GMS hero ids to display names. 127 heroes as of the
// current roster.
var heroNames = map[int]string{
	127: "Lukas", 126: "Suyou", 125: "Zhuxin", 124: "Chip", 123: "Cici",
	122: "Nolan", 121: "Ixia", 120: "Arlott", 119: "Novaria", 118: "Joy",
	117: "Fredrinn", 116: "Julian", 115: "Xavier", 114: "Melissa", 113: "Yin",
	112: "Floryn", 111: "Edith", 110: "Valentina", 109: "Aamon", 108: "Aulus",
	107: "Natan", 106: "Phoveus", 105: "Beatrix", 104: "Gloo", 103: "Paquito",
	102: "Mathilda", 101: "Yve", 100: "Brody", 99: "Barats", 98: "Khaleed",
	97: "Benedetta", 96: "Luo Yi", 95: "Yu Zhong", 94: "Popol and Kupa",
	93: "Atlas", 92: "Carmilla", 91: "Cecilion", 90: "Silvanna", 89: "Wanwan",
	88: "Masha", 87: "Baxia", 86: "Lylia", 85: "Dyrroth", 84: "Ling",
	83: "X.Borg", 82: "Terizla", 81: "Esmeralda", 80: "Guinevere",
	79: "Granger", 78: "Khufra", 77: "Badang", 76: "Faramis", 75: "Kadita",
	74: "Minsitthar", 73: "Harith", 72: "Thamuz", 71: "Kimmy", 70: "Belerick",
	69: "Hanzo", 68: "Lunox", 67: "Leomord", 66: "Vale", 65: "Claude",
	64: "Aldous", 63: "Selena", 62: "Kaja", 61: "Chang'e", 60: "Hanabi",
	59: "Uranus", 58: "Martis", 57: "Valir", 56: "Gusion", 55: "Angela",
	54: "Jawhead", 53: "Lesley", 52: "Pharsa", 51: "Helcurt", 50: "Zhask",
	49: "Hylos", 48: "Diggie", 47: "Lancelot", 46: "Odette", 45: "Argus",
	44: "Grock", 43: "Irithel", 42: "Harley", 41: "Gatotkaca", 40: "Karrie",
	39: "Roger", 38: "Vexana", 37: "Lapu-Lapu", 36: "Aurora", 35: "Hilda",
	34: "Estes", 33: "Cyclops", 32: "Johnson", 31: "Moskov",
	30: "Yi Sun-shin", 29: "Ruby", 28: "Alpha", 27: "Sun", 26: "Chou",
	25: "Kagura", 24: "Natalia", 23: "Gord", 22: "Freya", 21: "Hayabusa",
	20: "Lolita", 19: "Minotaur", 18: "Layla", 17: "Fanny", 16: "Zilong",
	15: "Eudora", 14: "Rafaela", 13: "Clint", 12: "Bruno", 11: "Bane",
	10: "Franco", 9: "Akai", 8: "Karina", 7: "Alucard", 6: "Tigreal",
	5: "Nana", 4: "Alice", 3: "Saber", 2: "Balmond", 1: "Miya",
}

var heroIDs = func() map[string]int {
	m := make(map[string]int, len(heroNames))
	for id, name := range heroNames {
		m[strings.ToLower(name)] = id
	}
	return m
}()

// HeroNameToID resolves a hero name (case-insensitive) to its GMS id.
func HeroNameToID(name string) (int, bool) {
	id, ok := heroIDs[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// HeroIDToName resolves a GMS hero id to its display name.
func HeroIDToName(id int) (string, bool) {
	name, ok := heroNames[id]
	return name, ok
}

func heroNameOrUnknown(id int) string {
	if name, ok := heroNames[id]; ok {
		return name
	}
	return "Unknown"
}

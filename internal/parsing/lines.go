package parsing

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Редове, които никога не са продукти: купони, суми, плащане, служебна
// информация от касата
var lineNoiseMarkers = []string{
	"#Lidl Plus купон",
	"#Акция",
	"ОТСТЪПКИ",
	"МЕЖДИННА СУМА",
	"ОБЩА СУМА",
	"В БРОЙ",
	"КРЕДИТНА/ДЕБИТНА",
	"РЕСТО",
	"-----",
	"Ти спести",
	"#Ном:",
	"#Z-отчет:",
	"#Каса:",
}

// Думи, които издават служебен ред, промъкнал се през шаблона за продукт.
// Сравнението е след привеждане към главни букви
var productNameBlocklist = []string{
	"ОБЩА", "ОБЩО", "ПЛАТЕНО", "СУМА", "TOTAL", "PAID",
	"НАЛИЧНОСТ", "МЕЖДИННА", "ОТСТЪПКИ", "DISCOUNT",
	"БАНКОВА", "КАРТА", "ВАУЧЕР", "VOUCHER",
	"СДАЧА", "CHANGE", "РЕСТО", "В БРОЙ",
	"НОМ:", "Z-ОТЧЕТ", "КАСА:", "КАСИЕР:",
	"АРТИКУЛА", "КОПИЕ",
}

var (
	// Име с поне два интервала преди цената, незадължителен валутен опашен
	// текст. Знакът % е в името заради продукти като "МЛЯКО 3.2%"
	productLinePattern = regexp.MustCompile(`^([А-ЯA-Z][А-ЯA-ZА-Яа-я\s\.\,\'\"\-\/\(\)0-9%]+?)\s{2,}(\d+[\.,]\d{2})\s*[BDлв]*\s*$`)

	// Ред "количество x единична цена", напр. "1,012 x 1,99"
	quantityLinePattern = regexp.MustCompile(`(\d+[\.,]\d+)\s*[xх]\s*(\d+[\.,]\d{2})`)
)

type productMatch struct {
	Name  string
	Price float64
}

// isNoiseLine отсява редовете със служебни маркери преди всякакъв опит за
// разпознаване на продукт
func isNoiseLine(line string) bool {
	for _, marker := range lineNoiseMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}

	return false
}

// matchProductLine разпознава ред "име   цена" и валидира името. Отхвърлят
// се имена под 3 знака, имена от списъка със служебни думи и имена със знак
// за умножение (остатъци от количествени редове)
func matchProductLine(line string) (productMatch, bool) {
	match := productLinePattern.FindStringSubmatch(line)
	if match == nil {
		return productMatch{}, false
	}

	name := strings.TrimSpace(match[1])
	if !isValidProductName(name) {
		return productMatch{}, false
	}

	price, err := parsePrice(match[2])
	if err != nil {
		return productMatch{}, false
	}

	return productMatch{Name: name, Price: price}, true
}

// unitPriceOverride търси количествен ред и връща единичната цена от него.
// Количеството не участва, продуктовият ред под него носи общата сума
func unitPriceOverride(line string) (float64, bool) {
	match := quantityLinePattern.FindStringSubmatch(line)
	if match == nil {
		return 0, false
	}

	price, err := parsePrice(match[2])
	if err != nil {
		return 0, false
	}

	return price, true
}

func isValidProductName(name string) bool {
	if utf8.RuneCountInString(name) < 3 {
		return false
	}

	lowered := strings.ToLower(name)
	if strings.Contains(lowered, "x") || strings.Contains(lowered, "х") {
		return false
	}

	uppered := strings.ToUpper(name)
	for _, word := range productNameBlocklist {
		if strings.Contains(uppered, word) {
			return false
		}
	}

	return true
}

func parsePrice(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
}

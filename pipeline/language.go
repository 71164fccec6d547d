package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// Language identifies a translation language by its index in the
// supported language list. The numbering is part of the wire format.
type Language uint8

const (
	Afrikaans Language = iota
	Danish
	Dutch
	German
	English
	Icelandic
	Luxembourgish
	Norwegian
	Swedish
	WesternFrisian
	Yiddish
	Asturian
	Catalan
	French
	Galician
	Italian
	Occitan
	Portuguese
	Romanian
	Spanish
	Belarusian
	Bosnian
	Bulgarian
	Croatian
	Czech
	Macedonian
	Polish
	Russian
	Serbian
	Slovak
	Slovenian
	Ukrainian
	Estonian
	Finnish
	Hungarian
	Latvian
	Lithuanian
	Albanian
	Armenian
	Georgian
	Greek
	Breton
	Irish
	ScottishGaelic
	Welsh
	Azerbaijani
	Bashkir
	Kazakh
	Turkish
	Uzbek
	Japanese
	Korean
	Vietnamese
	ChineseMandarin
	Bengali
	Gujarati
	Hindi
	Kannada
	Marathi
	Nepali
	Oriya
	Panjabi
	Sindhi
	Sinhala
	Urdu
	Tamil
	Cebuano
	Iloko
	Indonesian
	Javanese
	Malagasy
	Malay
	Malayalam
	Sundanese
	Tagalog
	Burmese
	CentralKhmer
	Lao
	Thai
	Mongolian
	Arabic
	Hebrew
	Pashto
	Farsi
	Amharic
	Fulah
	Hausa
	Igbo
	Lingala
	Luganda
	NorthernSotho
	Somali
	Swahili
	Swati
	Tswana
	Wolof
	Xhosa
	Yoruba
	Zulu
	HaitianCreole
)

// NumLanguages is the number of supported languages.
const NumLanguages = int(HaitianCreole) + 1

var languageNames = [NumLanguages]string{
	"Afrikaans",
	"Danish",
	"Dutch",
	"German",
	"English",
	"Icelandic",
	"Luxembourgish",
	"Norwegian",
	"Swedish",
	"Western Frisian",
	"Yiddish",
	"Asturian",
	"Catalan",
	"French",
	"Galician",
	"Italian",
	"Occitan",
	"Portuguese",
	"Romanian",
	"Spanish",
	"Belarusian",
	"Bosnian",
	"Bulgarian",
	"Croatian",
	"Czech",
	"Macedonian",
	"Polish",
	"Russian",
	"Serbian",
	"Slovak",
	"Slovenian",
	"Ukrainian",
	"Estonian",
	"Finnish",
	"Hungarian",
	"Latvian",
	"Lithuanian",
	"Albanian",
	"Armenian",
	"Georgian",
	"Greek",
	"Breton",
	"Irish",
	"Scottish Gaelic",
	"Welsh",
	"Azerbaijani",
	"Bashkir",
	"Kazakh",
	"Turkish",
	"Uzbek",
	"Japanese",
	"Korean",
	"Vietnamese",
	"Chinese Mandarin",
	"Bengali",
	"Gujarati",
	"Hindi",
	"Kannada",
	"Marathi",
	"Nepali",
	"Oriya",
	"Panjabi",
	"Sindhi",
	"Sinhala",
	"Urdu",
	"Tamil",
	"Cebuano",
	"Iloko",
	"Indonesian",
	"Javanese",
	"Malagasy",
	"Malay",
	"Malayalam",
	"Sundanese",
	"Tagalog",
	"Burmese",
	"Central Khmer",
	"Lao",
	"Thai",
	"Mongolian",
	"Arabic",
	"Hebrew",
	"Pashto",
	"Farsi",
	"Amharic",
	"Fulah",
	"Hausa",
	"Igbo",
	"Lingala",
	"Luganda",
	"Northern Sotho",
	"Somali",
	"Swahili",
	"Swati",
	"Tswana",
	"Wolof",
	"Xhosa",
	"Yoruba",
	"Zulu",
	"Haitian Creole",
}

// Valid reports whether l names a supported language.
func (l Language) Valid() bool {
	return int(l) < NumLanguages
}

func (l Language) String() string {
	if !l.Valid() {
		return "Language(" + strconv.Itoa(int(l)) + ")"
	}
	return languageNames[l]
}

// MarshalJSON encodes the language as its index so language lists stay
// arrays of numbers.
func (l Language) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(l), 10), nil
}

// ParseLanguage resolves a language by index or by name, ignoring case and
// spaces.
func ParseLanguage(s string) (Language, error) {
	if n, err := strconv.ParseUint(s, 10, 8); err == nil {
		l := Language(n)
		if !l.Valid() {
			return 0, fmt.Errorf("unknown language index %d", n)
		}
		return l, nil
	}
	key := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	for i, name := range languageNames {
		if strings.ToLower(strings.ReplaceAll(name, " ", "")) == key {
			return Language(i), nil
		}
	}
	return 0, fmt.Errorf("unknown language %q", s)
}

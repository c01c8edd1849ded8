package irc

// CasemapASCII returns the lowercase form of name, where only the ASCII
// letters A-Z are considered uppercase.
func CasemapASCII(name string) string {
	nameCf := []byte(name)
	for i, r := range nameCf {
		if 'A' <= r && r <= 'Z' {
			nameCf[i] = r + 'a' - 'A'
		}
	}
	return string(nameCf)
}

// CasemapRFC1459 is like CasemapASCII, except that "[]\~" are also the
// uppercase forms of "{}|^".
func CasemapRFC1459(name string) string {
	nameCf := []byte(name)
	for i, r := range nameCf {
		if 'A' <= r && r <= 'Z' {
			nameCf[i] = r + 'a' - 'A'
		} else if r == '[' {
			nameCf[i] = '{'
		} else if r == ']' {
			nameCf[i] = '}'
		} else if r == '\\' {
			nameCf[i] = '|'
		} else if r == '~' {
			nameCf[i] = '^'
		}
	}
	return string(nameCf)
}

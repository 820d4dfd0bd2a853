package utils

// ContainsString reports whether needle occurs in the slice hay. Used for
// small fixed sets like the image extension whitelist.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

package utils

import (
	"strconv"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// StringToUint converts string to uint, returns 0 if error or negative
func StringToUint(s string) uint {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0
	}
	return uint(i)
}

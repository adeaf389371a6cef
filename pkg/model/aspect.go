package model

import "fmt"

// commonRatios maps gcd-simplified width:height pairs to their conventional
// label. Cinema ratios that don't simplify nicely are matched explicitly.
var commonRatios = map[[2]int]string{
	{16, 9}:    "16:9",
	{4, 3}:     "4:3",
	{21, 9}:    "21:9",
	{9, 16}:    "9:16",
	{3, 4}:     "3:4",
	{9, 21}:    "9:21",
	{64, 27}:   "21:9", // 2.37:1
	{37, 20}:   "1.85:1",
	{239, 100}: "2.39:1",
	{185, 100}: "1.85:1",
	{1, 1}:     "1:1",
}

// AspectRatio simplifies width x height into a canonical ratio string.
// Degenerate dimensions fall back to "16:9", matching the backend.
func AspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return "16:9"
	}
	d := gcd(width, height)
	w, h := width/d, height/d
	if label, ok := commonRatios[[2]int{w, h}]; ok {
		return label
	}
	return fmt.Sprintf("%d:%d", w, h)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

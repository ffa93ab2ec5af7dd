package roomid

// seedWords is the corpus room identifiers are sampled from. Entries are
// short, concrete and easy to relay over voice or paper.
var seedWords = []string{
	// Animals
	"cat", "dog", "bear", "lion", "tiger", "duck", "horse", "seal", "whale", "turtle",
	"elephant", "zebra", "monkey", "panda", "fox", "wolf", "owl", "falcon", "penguin", "dolphin",
	// Objects
	"cup", "book", "door", "table", "ball", "candle", "comb", "key", "window", "bridge",
	"piano", "lamp", "mirror", "clock", "basket", "bottle", "hammer", "needle", "rope", "wheel",
	"car", "plane", "bicycle", "bus", "train", "boat", "ship", "kite", "anchor", "ladder",
	// Colors
	"blue", "red", "green", "yellow", "purple", "black", "white", "gray", "brown", "pink",
	// Places
	"river", "forest", "desert", "beach", "island", "mountain", "valley", "city", "village", "castle",
	// Food
	"pizza", "sushi", "rice", "bean", "potato", "carrot", "tomato", "lettuce", "grape", "banana",
	// Technology
	"chip", "laser", "radar", "probe", "drone", "robot", "satellite", "antenna", "cable", "keyboard",
	// Concepts
	"time", "light", "shadow", "echo", "wave", "pulse", "code", "cipher", "protocol", "network",
	// Nature
	"sun", "moon", "flower", "star", "fire", "wind", "earth", "air", "water", "stone",
	"cloud", "rain", "snow", "storm", "fog", "dawn",
}

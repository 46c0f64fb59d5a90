package share

// wordList feeds NewToken. 256 short lowercase words; three draws give
// roughly 16.7 million combinations, checked for collisions on mint.
var wordList = []string{
	"able", "acid", "aged", "also", "apex", "aqua", "arch", "area",
	"army", "atom", "aunt", "auto", "away", "axis", "baby", "back",
	"ball", "band", "bank", "barn", "base", "bath", "beam", "bean",
	"bear", "beat", "bell", "belt", "bend", "best", "bird", "bite",
	"blue", "boat", "body", "bold", "bolt", "bone", "book", "boot",
	"born", "both", "bowl", "brag", "brim", "bulk", "burn", "bush",
	"busy", "cake", "calm", "camp", "cape", "card", "care", "cart",
	"case", "cast", "cave", "cell", "chef", "chip", "city", "clay",
	"clip", "club", "coal", "coat", "code", "coin", "cold", "cool",
	"copy", "cord", "core", "corn", "cost", "cozy", "crew", "crop",
	"cube", "curl", "dark", "dawn", "deal", "deep", "deer", "desk",
	"dial", "dime", "dish", "dock", "dome", "door", "dose", "dove",
	"down", "draw", "drop", "drum", "duck", "dune", "dusk", "dust",
	"each", "earl", "east", "easy", "echo", "edge", "else", "envy",
	"epic", "even", "exit", "face", "fact", "fair", "fall", "fame",
	"farm", "fast", "fawn", "fern", "fine", "fire", "firm", "fish",
	"five", "flag", "flat", "flow", "foam", "fold", "fond", "font",
	"food", "form", "fort", "four", "free", "frog", "full", "fund",
	"gain", "game", "gate", "gaze", "gear", "gift", "give", "glad",
	"glen", "glow", "goal", "gold", "golf", "good", "gray", "grid",
	"grip", "grow", "gulf", "hall", "hand", "harp", "hawk", "haze",
	"heat", "herb", "hero", "hill", "hint", "hive", "hold", "home",
	"hope", "horn", "host", "hour", "howl", "hush", "icon", "idea",
	"inch", "iron", "item", "jade", "jazz", "join", "jolt", "jump",
	"june", "jury", "keen", "keep", "kelp", "kind", "king", "kite",
	"knee", "knit", "lace", "lake", "lamb", "lamp", "land", "lane",
	"lark", "late", "lava", "lawn", "leaf", "lean", "left", "lens",
	"life", "lime", "line", "lion", "list", "loft", "long", "look",
	"loop", "luck", "lush", "lynx", "maid", "mail", "main", "mane",
	"maple", "mark", "mask", "mast", "mate", "maze", "mesa", "mild",
	"mile", "milk", "mint", "mist", "mode", "mole", "moon", "moss",
	"moth", "move", "myth", "nest", "newt", "nice", "node", "noon",
}

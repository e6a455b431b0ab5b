package css

// The CSS named-color table (the extended X11 set plus the 16 HTML basics).
// Names pass through as-is; the output side understands them directly.
var namedColors = wordSet(
	"aliceblue", "antiquewhite", "aqua", "aquamarine", "azure",
	"beige", "bisque", "black", "blanchedalmond", "blue", "blueviolet",
	"brown", "burlywood", "cadetblue", "chartreuse", "chocolate", "coral",
	"cornflowerblue", "cornsilk", "crimson", "cyan",
	"darkblue", "darkcyan", "darkgoldenrod", "darkgray", "darkgreen",
	"darkgrey", "darkkhaki", "darkmagenta", "darkolivegreen", "darkorange",
	"darkorchid", "darkred", "darksalmon", "darkseagreen", "darkslateblue",
	"darkslategray", "darkslategrey", "darkturquoise", "darkviolet",
	"deeppink", "deepskyblue", "dimgray", "dimgrey", "dodgerblue",
	"firebrick", "floralwhite", "forestgreen", "fuchsia",
	"gainsboro", "ghostwhite", "gold", "goldenrod", "gray", "green",
	"greenyellow", "grey",
	"honeydew", "hotpink",
	"indianred", "indigo", "ivory",
	"khaki",
	"lavender", "lavenderblush", "lawngreen", "lemonchiffon", "lightblue",
	"lightcoral", "lightcyan", "lightgoldenrodyellow", "lightgray",
	"lightgreen", "lightgrey", "lightpink", "lightsalmon", "lightseagreen",
	"lightskyblue", "lightslategray", "lightslategrey", "lightsteelblue",
	"lightyellow", "lime", "limegreen", "linen",
	"magenta", "maroon", "mediumaquamarine", "mediumblue", "mediumorchid",
	"mediumpurple", "mediumseagreen", "mediumslateblue", "mediumspringgreen",
	"mediumturquoise", "mediumvioletred", "midnightblue", "mintcream",
	"mistyrose", "moccasin",
	"navajowhite", "navy",
	"oldlace", "olive", "olivedrab", "orange", "orangered", "orchid",
	"palegoldenrod", "palegreen", "paleturquoise", "palevioletred",
	"papayawhip", "peachpuff", "peru", "pink", "plum", "powderblue",
	"purple",
	"red", "rosybrown", "royalblue",
	"saddlebrown", "salmon", "sandybrown", "seagreen", "seashell", "sienna",
	"silver", "skyblue", "slateblue", "slategray", "slategrey", "snow",
	"springgreen", "steelblue",
	"tan", "teal", "thistle", "tomato", "turquoise",
	"violet",
	"wheat", "white", "whitesmoke",
	"yellow", "yellowgreen",
	"transparent",
)

// System colors depend on the viewer's desktop theme, which the converter
// cannot know; every one of them resolves to a fixed neutral fallback.
var systemColors = wordSet(
	"activeborder", "activecaption", "appworkspace", "background",
	"buttonface", "buttonhighlight", "buttonshadow", "buttontext",
	"captiontext", "graytext", "highlight", "highlighttext",
	"inactiveborder", "inactivecaption", "inactivecaptiontext",
	"infobackground", "infotext", "menu", "menutext",
	"scrollbar", "threeddarkshadow", "threedface", "threedhighlight",
	"threedlightshadow", "threedshadow", "window", "windowframe",
	"windowtext",
)

func isNamedColor(word string) bool {
	_, ok := namedColors[word]
	return ok
}

func isSystemColor(word string) bool {
	_, ok := systemColors[word]
	return ok
}

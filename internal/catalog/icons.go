package catalog

// Glyphs shown next to file names and group headers
const (
	DocumentIcon = "📄"
	ImageIcon    = "🖼️"
	AnimatedIcon = "🎞️"
	VectorIcon   = "📐"
	MachineIcon  = "⚙️"
	AdobeIcon    = "🎨"
	CameraIcon   = "📷"
	ModelIcon    = "🧊"
	AudioIcon    = "🎵"
	VideoIcon    = "🎬"
	PDFIcon      = "📕"
	TextIcon     = "📝"
	WebIcon      = "🌐"
	DataIcon     = "📊"
)

var extensionIcons = map[string]string{
	"png": ImageIcon, "jpg": ImageIcon, "jpeg": ImageIcon, "webp": ImageIcon, "gif": AnimatedIcon,
	"bmp": ImageIcon, "tiff": ImageIcon, "ico": ImageIcon,
	"svg": VectorIcon, "dxf": VectorIcon, "gcode": MachineIcon,
	"psd": AdobeIcon, "ai": AdobeIcon, "eps": AdobeIcon,
	"cr2": CameraIcon, "nef": CameraIcon, "arw": CameraIcon, "dng": CameraIcon,
	"raf": CameraIcon, "orf": CameraIcon, "rw2": CameraIcon,
	"stl": ModelIcon, "obj": ModelIcon, "ply": ModelIcon, "gltf": ModelIcon,
	"glb": ModelIcon, "3mf": ModelIcon, "fbx": ModelIcon, "off": ModelIcon,
	"mp3": AudioIcon, "wav": AudioIcon, "flac": AudioIcon, "ogg": AudioIcon,
	"aac": AudioIcon, "m4a": AudioIcon, "wma": AudioIcon,
	"mp4": VideoIcon, "avi": VideoIcon, "mkv": VideoIcon, "mov": VideoIcon,
	"webm": VideoIcon, "flv": VideoIcon,
	"pdf": PDFIcon, "docx": TextIcon, "txt": DocumentIcon, "html": WebIcon, "md": TextIcon,
	"csv": DataIcon, "json": DataIcon, "xlsx": DataIcon, "xls": DataIcon,
}

var categoryIcons = map[string]string{
	"Imagem":    ImageIcon,
	"RAW":       CameraIcon,
	"Adobe":     AdobeIcon,
	"Vetor/CNC": VectorIcon,
	"3D":        ModelIcon,
	"Áudio":     AudioIcon,
	"Vídeo":     VideoIcon,
	"Documento": DocumentIcon,
	"Dados":     DataIcon,
}

// IconForExtension returns the glyph for an exact lower-case extension match,
// falling back to DocumentIcon.
func IconForExtension(ext string) string {
	if icon, ok := extensionIcons[normalize(ext)]; ok {
		return icon
	}
	return DocumentIcon
}

// IconForCategory returns the header glyph of a category, or "" when none.
func IconForCategory(name string) string {
	return categoryIcons[name]
}

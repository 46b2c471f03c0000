package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 文件上传相关常量
const (
	MimeImage       = "image/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

var (
	AllowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
)

// 列表型课程字段（技能、要求、学习成果）的最大条目数
const MaxListFieldEntries = 50

// 描述类字段的最大长度
const MaxDescriptionLength = 2000

// 视频进度达到该百分比后自动判定课时完成
const AutoCompleteThreshold = 70.0

package util

import (
	"bytes"
	"image"
	"io"
	"mime/multipart"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/vincent-petithory/dataurl"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const dataURIImagePrefix = "data:image"

// ImageFile 解码后的图片内容，尚未写入存储
type ImageFile struct {
	Data        []byte
	Ext         string
	ContentType string
}

func (f *ImageFile) Size() int64 {
	return int64(len(f.Data))
}

func (f *ImageFile) Reader() io.Reader {
	return bytes.NewReader(f.Data)
}

// IsImageDataURI 判断字符串是否为 data:image 开头的 base64 图片
func IsImageDataURI(s string) bool {
	return strings.HasPrefix(s, dataURIImagePrefix)
}

// DecodeImageDataURI 解码 data:image/<type>;base64,<payload>。扩展名按解码出的图片格式确定，不信任媒体子类型
func DecodeImageDataURI(s string) (*ImageFile, error) {
	if !IsImageDataURI(s) {
		return nil, ErrNotAFile
	}

	du, err := dataurl.DecodeString(s)
	if err != nil || du.Encoding != dataurl.EncodingBase64 {
		return nil, ErrInvalidImage
	}

	return newImageFile(du.Data)
}

// ReadImageUpload 读取 multipart 上传的图片
func ReadImageUpload(fh *multipart.FileHeader) (*ImageFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return newImageFile(data)
}

// imageExtensions 允许落盘的图片格式（image.DecodeConfig 返回的格式名）-> 扩展名
var imageExtensions = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"gif":  "gif",
	"webp": "webp",
	"bmp":  "bmp",
}

func newImageFile(data []byte) (*ImageFile, error) {
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}

	// 先按魔数嗅探，再交给解码器确认格式
	if !strings.HasPrefix(mimetype.Detect(data).String(), MimeImage) {
		return nil, ErrInvalidImage
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}
	ext, ok := imageExtensions[format]
	if !ok {
		return nil, ErrInvalidImage
	}

	return &ImageFile{
		Data:        data,
		Ext:         ext,
		ContentType: MimeImage + format,
	}, nil
}

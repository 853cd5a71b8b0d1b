package service

import (
	"bytes"
	"encoding/json"
	"kittygram_backend/internal/model"
	"kittygram_backend/internal/util"
	"mime/multipart"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
)

// NullableString 区分字段缺省、显式 null 与字符串值
type NullableString struct {
	Set   bool
	Valid bool
	Value string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Valid = false
		return nil
	}
	n.Valid = true
	return json.Unmarshal(data, &n.Value)
}

type AchievementPayload struct {
	AchievementName *string `json:"achievement_name"`
}

// CatPayload 猫的请求体。字段都可缺省，必填校验在 Validate 中按是否部分更新处理
// swagger:model CatPayload
type CatPayload struct {
	Name         *string               `json:"name"`
	Color        *string               `json:"color"`
	BirthYear    *int                  `json:"birth_year"`
	Achievements *[]AchievementPayload `json:"achievements"`
	Image        NullableString        `json:"image" swaggertype:"string"`

	ImageUpload *multipart.FileHeader `json:"-"`
}

// CatInput 校验通过后的数据
type CatInput struct {
	Name      *string
	Color     *string
	BirthYear *int

	HasAchievements  bool
	AchievementNames []string

	Image      *util.ImageFile
	ClearImage bool
}

// NewCatPayloadFromForm 由 multipart 表单构造请求体，achievements 以 JSON 数组字符串传递
func NewCatPayloadFromForm(values map[string][]string, image *multipart.FileHeader) (*CatPayload, util.FieldErrors) {
	errs := util.FieldErrors{}
	payload := &CatPayload{ImageUpload: image}

	get := func(key string) (string, bool) {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return "", false
		}
		return v[0], true
	}

	if v, ok := get("name"); ok {
		payload.Name = &v
	}
	if v, ok := get("color"); ok {
		payload.Color = &v
	}
	if v, ok := get("birth_year"); ok {
		year, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs.Add("birth_year", util.MsgInvalidInteger)
		} else {
			payload.BirthYear = &year
		}
	}
	if v, ok := get("achievements"); ok {
		var list []AchievementPayload
		if err := json.Unmarshal([]byte(v), &list); err != nil {
			errs.Add("achievements", util.MsgInvalidList)
		} else {
			payload.Achievements = &list
		}
	}
	if image == nil {
		if v, ok := get("image"); ok {
			payload.Image = NullableString{Set: true, Valid: v != "", Value: v}
		}
	}

	return payload, errs
}

// validateCharField 去掉首尾空白后校验，返回去空白后的值；缺省或校验失败时返回 nil
func validateCharField(errs util.FieldErrors, field string, value *string, required bool, maxLength int) *string {
	if value == nil {
		if required {
			errs.Add(field, util.MsgRequired)
		}
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		errs.Add(field, util.MsgBlank)
		return nil
	}
	if utf8.RuneCountInString(trimmed) > maxLength {
		errs.Add(field, "Ensure this field has no more than "+strconv.Itoa(maxLength)+" characters.")
		return nil
	}
	return &trimmed
}

// Validate 校验并转换请求体：字符串去首尾空白、颜色转名称、图片解码、成就名去重
func (p *CatPayload) Validate(partial bool) (*CatInput, util.FieldErrors) {
	errs := util.FieldErrors{}
	required := !partial
	in := &CatInput{
		Name:      validateCharField(errs, "name", p.Name, required, model.CatNameMaxLength),
		BirthYear: p.BirthYear,
	}

	if p.Color == nil {
		if required {
			errs.Add("color", util.MsgRequired)
		}
	} else if name, err := util.HexToColorName(strings.TrimSpace(*p.Color)); err != nil {
		errs.Add("color", err.Error())
	} else {
		in.Color = &name
	}

	if p.BirthYear == nil && required {
		errs.Add("birth_year", util.MsgRequired)
	}

	if p.Achievements != nil {
		in.HasAchievements = true
		names := make([]string, 0, len(*p.Achievements))
		for i, a := range *p.Achievements {
			field := "achievements[" + strconv.Itoa(i) + "].achievement_name"
			if name := validateCharField(errs, field, a.AchievementName, true, model.AchievementNameMaxLength); name != nil {
				names = append(names, *name)
			}
		}
		in.AchievementNames = lo.Uniq(names)
	}

	switch {
	case p.ImageUpload != nil:
		img, err := util.ReadImageUpload(p.ImageUpload)
		if err != nil {
			errs.Add("image", util.ErrInvalidImage.Error())
		} else {
			in.Image = img
		}
	case p.Image.Set && !p.Image.Valid:
		in.ClearImage = true
	case p.Image.Set:
		img, err := util.DecodeImageDataURI(p.Image.Value)
		if err != nil {
			errs.Add("image", err.Error())
		} else {
			in.Image = img
		}
	}

	if !errs.Empty() {
		return nil, errs
	}
	return in, nil
}

type AchievementResponse struct {
	ID              uint   `json:"id"`
	AchievementName string `json:"achievement_name"`
}

// CatResponse 猫的响应体
// swagger:model CatResponse
type CatResponse struct {
	ID           uint                  `json:"id"`
	Name         string                `json:"name"`
	Color        string                `json:"color"`
	BirthYear    int                   `json:"birth_year"`
	Achievements []AchievementResponse `json:"achievements"`
	Owner        uint                  `json:"owner"`
	Age          int                   `json:"age"`
	Image        *string               `json:"image"`
	ImageURL     *string               `json:"image_url"`
}

// URLResolver 将存储 key 解析为可访问的 URL
type URLResolver interface {
	GetURL(filename string) string
}

type CatSerializer struct {
	URLs URLResolver
	Now  func() time.Time
}

func NewCatSerializer(urls URLResolver) *CatSerializer {
	return &CatSerializer{URLs: urls, Now: time.Now}
}

func ToAchievementResponse(a model.Achievement) AchievementResponse {
	return AchievementResponse{ID: a.ID, AchievementName: a.Name}
}

// ToResponse baseURL 形如 http://host，用于把相对的图片地址补全为绝对地址
func (s *CatSerializer) ToResponse(cat *model.Cat, baseURL string) CatResponse {
	resp := CatResponse{
		ID:        cat.ID,
		Name:      cat.Name,
		Color:     cat.Color,
		BirthYear: cat.BirthYear,
		Achievements: lo.Map(cat.Achievements, func(a model.Achievement, _ int) AchievementResponse {
			return ToAchievementResponse(a)
		}),
		Owner: cat.OwnerID,
		Age:   cat.Age(s.Now()),
	}

	if cat.HasImage() {
		url := s.URLs.GetURL(*cat.Image)
		absolute := url
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			absolute = strings.TrimSuffix(baseURL, "/") + url
		}
		resp.ImageURL = &url
		resp.Image = &absolute
	}

	return resp
}

func (s *CatSerializer) ToResponseList(cats []model.Cat, baseURL string) []CatResponse {
	list := make([]CatResponse, len(cats))
	for i := range cats {
		list[i] = s.ToResponse(&cats[i], baseURL)
	}
	return list
}

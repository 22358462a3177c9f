package useragent

import (
	"Abode/internal/model"
	"strings"

	ua "github.com/mssola/useragent"
)

const (
	DeviceDesktop = "Desktop"
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceBot     = "Bot"
)

// Info 解析后的客户端信息，缺失字段为 Unknown
type Info struct {
	DeviceType string
	Browser    string
	OS         string
}

// Parse 尽力解析 User-Agent，不返回错误
func Parse(raw string) Info {
	info := Info{
		DeviceType: model.UnknownValue,
		Browser:    model.UnknownValue,
		OS:         model.UnknownValue,
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return info
	}

	u := ua.New(raw)
	if name, _ := u.Browser(); name != "" {
		info.Browser = name
	}
	if osName := u.OSInfo().Name; osName != "" {
		info.OS = osName
	} else if os := u.OS(); os != "" {
		info.OS = os
	}

	switch {
	case u.Bot():
		info.DeviceType = DeviceBot
	case isTablet(raw):
		info.DeviceType = DeviceTablet
	case u.Mobile():
		info.DeviceType = DeviceMobile
	case u.Platform() != "" || u.OS() != "":
		info.DeviceType = DeviceDesktop
	}
	return info
}

func isTablet(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "ipad") ||
		(strings.Contains(lower, "android") && !strings.Contains(lower, "mobile"))
}

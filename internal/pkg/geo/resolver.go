package geo

import (
	"Abode/internal/model"
	"context"
	"net"
	"strings"
	"time"
)

// Location 粗粒度地理位置
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// Unknown 解析失败时的兜底值
func Unknown() Location {
	return Location{Country: model.UnknownValue, City: model.UnknownValue}
}

// Known 是否为有效解析结果
func (l Location) Known() bool {
	return l.Country != "" && l.Country != model.UnknownValue
}

// LocationResolver IP 地理位置解析，失败一律返回 Unknown，不返回错误
type LocationResolver interface {
	Resolve(ctx context.Context, ip string, timeout time.Duration) Location
}

// NormalizeIP 去掉端口与 IPv6 中括号，非法返回 nil
func NormalizeIP(raw string) net.IP {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if host, _, err := net.SplitHostPort(raw); err == nil {
		raw = host
	}
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
	return net.ParseIP(raw)
}

// IsPublicIP 内网、回环、链路本地等地址不做外部查询
func IsPublicIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	return !(ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified() || ip.IsMulticast())
}

// StaticResolver 固定返回值，用于关闭外部查询的场景与测试
type StaticResolver struct {
	Location Location
}

func (s StaticResolver) Resolve(_ context.Context, _ string, _ time.Duration) Location {
	if !s.Location.Known() {
		return Unknown()
	}
	return s.Location
}

package xtrace

import (
	"net/http"
	"strings"

	"google.golang.org/grpc/metadata"
)

// Carrier 传播载体，key 大小写不敏感
type Carrier interface {
	Get(key string) string
	Set(key, value string)
}

// HeaderCarrier 适配 http.Header
type HeaderCarrier http.Header

func (c HeaderCarrier) Get(key string) string {
	return strings.TrimSpace(http.Header(c).Get(key))
}

func (c HeaderCarrier) Set(key, value string) {
	http.Header(c).Set(key, value)
}

// MetadataCarrier 适配 gRPC metadata.MD，取第一个值
type MetadataCarrier metadata.MD

func (c MetadataCarrier) Get(key string) string {
	values := metadata.MD(c).Get(key)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func (c MetadataCarrier) Set(key, value string) {
	metadata.MD(c).Set(key, value)
}

// MapCarrier 适配 map[string]string，key 统一小写
type MapCarrier map[string]string

func (c MapCarrier) Get(key string) string {
	return strings.TrimSpace(c[strings.ToLower(key)])
}

func (c MapCarrier) Set(key, value string) {
	c[strings.ToLower(key)] = value
}

var (
	_ Carrier = HeaderCarrier(nil)
	_ Carrier = MetadataCarrier(nil)
	_ Carrier = MapCarrier(nil)
)

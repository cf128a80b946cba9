package attachment

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/dapur-gratis/resep-api/types/entity"
)

func Test_Policy_Validate(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name        string
		contentType string
		sizeBytes   int64
		wantCode    string
	}{
		{name: "png ok", contentType: "image/png", sizeBytes: 1024, wantCode: ""},
		{name: "jpeg ok", contentType: "image/jpeg", sizeBytes: DefaultMaxSizeBytes, wantCode: ""},
		{name: "webp ok", contentType: "image/webp", sizeBytes: 1, wantCode: ""},
		{name: "case insensitive", contentType: "IMAGE/PNG", sizeBytes: 10, wantCode: ""},
		{name: "pdf rejected", contentType: "application/pdf", sizeBytes: 10, wantCode: "VALIDATION_FAILED"},
		{name: "svg rejected", contentType: "image/svg+xml", sizeBytes: 10, wantCode: "VALIDATION_FAILED"},
		{name: "empty type rejected", contentType: "", sizeBytes: 10, wantCode: "VALIDATION_FAILED"},
		{name: "oversized rejected", contentType: "image/png", sizeBytes: DefaultMaxSizeBytes + 1, wantCode: "VALIDATION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errUC := policy.Validate(tt.contentType, tt.sizeBytes)
			if tt.wantCode == "" {
				if errUC != nil {
					t.Errorf("Validate() = %v, want ok", errUC.Err())
				}
				return
			}
			if errUC == nil || errUC.Errors[0].Code != tt.wantCode {
				t.Errorf("Validate() = %v, want code %v", errUC, tt.wantCode)
			}
		})
	}
}

func Test_ParseDataURL(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3}
	encoded := base64.StdEncoding.EncodeToString(payload)

	tests := []struct {
		name     string
		in       string
		wantType string
		wantCode string
	}{
		{name: "valid png", in: "data:image/png;base64," + encoded, wantType: "image/png"},
		{name: "valid webp", in: "data:image/webp;base64," + encoded, wantType: "image/webp"},
		{name: "missing scheme", in: "image/png;base64," + encoded, wantCode: "MALFORMED_IMAGE"},
		{name: "missing encoding marker", in: "data:image/png," + encoded, wantCode: "MALFORMED_IMAGE"},
		{name: "empty body", in: "data:image/png;base64,", wantCode: "MALFORMED_IMAGE"},
		{name: "undecodable body", in: "data:image/png;base64,!!notbase64!!", wantCode: "MALFORMED_IMAGE"},
		{name: "empty string", in: "", wantCode: "MALFORMED_IMAGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upload, errUC := ParseDataURL(tt.in)
			if tt.wantCode != "" {
				if errUC == nil || errUC.Errors[0].Code != tt.wantCode {
					t.Errorf("ParseDataURL() error = %v, want %v", errUC, tt.wantCode)
				}
				return
			}
			if errUC != nil {
				t.Fatalf("ParseDataURL() error = %v", errUC.Err())
			}
			if upload.ContentType != tt.wantType {
				t.Errorf("ParseDataURL() type = %v, want %v", upload.ContentType, tt.wantType)
			}
			if !bytes.Equal(upload.Content, payload) {
				t.Errorf("ParseDataURL() content = %v, want %v", upload.Content, payload)
			}
		})
	}
}

func Test_ResolveIntent_precedence(t *testing.T) {
	upload := pngUpload(16)
	inline := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{1, 2, 3})

	tests := []struct {
		name       string
		upload     *entity.PendingUpload
		inline     string
		remove     bool
		wantAction entity.ImageAction
	}{
		{name: "upload wins over inline and remove", upload: upload, inline: inline, remove: true, wantAction: entity.ImageReplace},
		{name: "inline wins over remove", inline: inline, remove: true, wantAction: entity.ImageReplace},
		{name: "remove without payloads", remove: true, wantAction: entity.ImageRemove},
		{name: "default keeps", wantAction: entity.ImageKeep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, errUC := ResolveIntent(tt.upload, tt.inline, tt.remove)
			if errUC != nil {
				t.Fatalf("ResolveIntent() error = %v", errUC.Err())
			}
			if intent.Action != tt.wantAction {
				t.Errorf("ResolveIntent() action = %v, want %v", intent.Action, tt.wantAction)
			}
			if tt.wantAction == entity.ImageReplace && intent.Upload == nil {
				t.Errorf("ResolveIntent() replace without upload")
			}
		})
	}
}

func Test_ResolveIntent_malformedInline(t *testing.T) {
	_, errUC := ResolveIntent(nil, "data:;base64", true)
	if errUC == nil || errUC.Errors[0].Code != "MALFORMED_IMAGE" {
		t.Errorf("ResolveIntent() = %v, want MALFORMED_IMAGE instead of silent keep", errUC)
	}
}

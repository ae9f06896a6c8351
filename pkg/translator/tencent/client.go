// Package tencent 把腾讯云机器翻译（TMT）适配为 translator.Translator 接口
package tencent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/regions"
	tmt "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tmt/v20180321"

	"lyrics-etymology/pkg/translator"
)

var _ translator.Translator = (*Client)(nil)

// tmtAPI 是本包用到的 TMT 接口子集
type tmtAPI interface {
	TextTranslateBatchWithContext(ctx context.Context, request *tmt.TextTranslateBatchRequest) (*tmt.TextTranslateBatchResponse, error)
	LanguageDetectWithContext(ctx context.Context, request *tmt.LanguageDetectRequest) (*tmt.LanguageDetectResponse, error)
}

type Client struct {
	tmtClient tmtAPI
	projectID int64
}

func NewClient(secretID, secretKey string, timeoutSeconds int) (*Client, error) {
	if strings.TrimSpace(secretID) == "" || strings.TrimSpace(secretKey) == "" {
		return nil, translator.ErrNoCredential
	}
	credential := common.NewCredential(secretID, secretKey)

	cpf := profile.NewClientProfile()
	cpf.HttpProfile.ReqMethod = "POST"
	if timeoutSeconds > 0 {
		cpf.HttpProfile.ReqTimeout = timeoutSeconds
	}
	cpf.HttpProfile.Endpoint = "tmt.tencentcloudapi.com"

	tmtClient, err := tmt.NewClient(credential, regions.Guangzhou, cpf)
	if err != nil {
		log.Error().Err(err).Msg("new tencent client error")
		return nil, err
	}
	return &Client{tmtClient: tmtClient}, nil
}

func (c *Client) Name() string {
	return "tencent"
}

// Translate 批量翻译，源语言自动识别
func (c *Client) Translate(ctx context.Context, texts []string, target string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	request := tmt.NewTextTranslateBatchRequest()
	request.Source = common.StringPtr("auto")
	request.Target = common.StringPtr(target)
	request.ProjectId = common.Int64Ptr(c.projectID)
	request.SourceTextList = common.StringPtrs(texts)

	response, err := c.tmtClient.TextTranslateBatchWithContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("tencent translate: %w", err)
	}
	if response == nil || response.Response == nil {
		return nil, errors.New("tencent translate: empty response")
	}
	list := response.Response.TargetTextList
	if len(list) != len(texts) {
		return nil, fmt.Errorf("tencent translate: got %d results for %d texts", len(list), len(texts))
	}

	out := make([]string, len(texts))
	for i, t := range list {
		out[i] = texts[i]
		if t != nil && *t != "" {
			out[i] = *t
		}
	}
	return out, nil
}

func (c *Client) Detect(ctx context.Context, text string) (string, error) {
	request := tmt.NewLanguageDetectRequest()
	request.Text = common.StringPtr(text)
	request.ProjectId = common.Int64Ptr(c.projectID)

	response, err := c.tmtClient.LanguageDetectWithContext(ctx, request)
	if err != nil {
		return "", fmt.Errorf("tencent detect: %w", err)
	}
	if response == nil || response.Response == nil || response.Response.Lang == nil {
		return "", errors.New("tencent detect: empty response")
	}
	return *response.Response.Lang, nil
}

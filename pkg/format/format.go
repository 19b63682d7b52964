// Package format builds the Slack replies sent back to users.
package format

import (
	"fmt"
	"time"

	"github.com/savaki/slack-relay/pkg/models"
	"github.com/slack-go/slack"
)

// MaxListedBuckets caps how many buckets are rendered as blocks
const MaxListedBuckets = 10

// Bucket is the subset of an S3 bucket shown to users
type Bucket struct {
	Name      string
	CreatedAt time.Time
}

func section(text string) slack.Block {
	return slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
}

// ProductFound reports a successful product lookup
func ProductFound(productID, body string) models.Response {
	return models.Response{
		Text: fmt.Sprintf("상품번호 %s의 정보를 조회했습니다.", productID),
		Blocks: []slack.Block{
			section(fmt.Sprintf("✅ *상품 정보 조회 완료*\n상품번호: `%s`", productID)),
			section(fmt.Sprintf("```%s```", body)),
		},
	}
}

// ProductNotFound reports a 404 from the product API
func ProductNotFound(productID string) models.Response {
	return models.Response{
		Text: fmt.Sprintf("상품번호 %s를 찾을 수 없습니다.", productID),
		Blocks: []slack.Block{
			section(fmt.Sprintf("❌ *조회 실패*\n상품번호 `%s`를 찾을 수 없습니다.", productID)),
		},
	}
}

// ProductAPIError reports an unexpected status from the product API
func ProductAPIError(status int, body string) models.Response {
	return models.Response{
		Text: fmt.Sprintf("API 호출 중 오류가 발생했습니다. (상태코드: %d)", status),
		Blocks: []slack.Block{
			section(fmt.Sprintf("⚠️ *API 오류*\n상태코드: %d\n응답: %s", status, body)),
		},
	}
}

// ProductTimeout reports that the product API did not answer in time
func ProductTimeout() models.Response {
	return models.Response{Text: "⏱️ API 요청 시간이 초과되었습니다."}
}

// ProductUnreachable reports that the product API could not be reached
func ProductUnreachable() models.Response {
	return models.Response{Text: "🔌 API 서버에 연결할 수 없습니다."}
}

// ProductFailure reports any other product lookup failure
func ProductFailure(err error) models.Response {
	return models.Response{Text: fmt.Sprintf("❌ 오류가 발생했습니다: %v", err)}
}

// AskProductID prompts the user for the product id to look up
func AskProductID() models.Response {
	return models.Response{
		Text: "상품번호를 알려주세요.",
		Blocks: []slack.Block{
			section("🔍 *상품 정보를 조회하겠습니다.*\n\n조회할 상품번호를 입력해주세요.\n(예: aa, bb, 123 등)"),
		},
	}
}

// BucketList renders the bucket count and the first MaxListedBuckets buckets
func BucketList(buckets []Bucket) models.Response {
	blocks := []slack.Block{
		section(fmt.Sprintf("*S3 버킷 목록* (총 %d개)", len(buckets))),
	}

	for i, b := range buckets {
		if i == MaxListedBuckets {
			break
		}
		created := "알 수 없음"
		if !b.CreatedAt.IsZero() {
			created = b.CreatedAt.Format("2006-01-02")
		}
		blocks = append(blocks, section(fmt.Sprintf("• `%s` - 생성일: %s", b.Name, created)))
	}

	return models.Response{
		Text:   fmt.Sprintf("S3 버킷 %d개를 찾았습니다.", len(buckets)),
		Blocks: blocks,
	}
}

// StorageError reports a failed bucket listing
func StorageError(err error) models.Response {
	return models.Response{Text: fmt.Sprintf("S3 조회 중 오류가 발생했습니다: %v", err)}
}

// DatabasePending is the placeholder reply for database queries
func DatabasePending() models.Response {
	return models.Response{
		Text: "DynamoDB 조회 기능은 준비 중입니다.",
		Blocks: []slack.Block{
			section("*DynamoDB 조회*\n이 기능은 곧 추가될 예정입니다."),
		},
	}
}

// Help lists the supported commands
func Help() models.Response {
	return models.Response{
		Text: "사용 가능한 명령어",
		Blocks: []slack.Block{
			section("*🤖 AWS 봇 사용법*\n저를 멘션하거나 DM으로 다음과 같이 말씀해주세요:"),
			section("• `API 호출` - 상품 정보 조회\n• `S3 버킷 목록 보여줘`\n• `DynamoDB 데이터 조회`\n• `도움말`"),
		},
	}
}

// NotUnderstood is returned when the AI classifier could not map the request
func NotUnderstood() models.Response {
	return models.Response{
		Text: "죄송합니다. 요청을 이해하지 못했습니다.",
		Blocks: []slack.Block{
			section("😅 요청을 이해하지 못했습니다.\n\n다음과 같이 말씀해보세요:"),
			section("• `S3 버킷 목록을 보여줘`\n• `데이터베이스 조회해줘`\n• `도움말`"),
		},
	}
}

// CommandMenu is returned when no keyword matched
func CommandMenu() models.Response {
	return models.Response{
		Text: "무엇을 도와드릴까요? 다음 명령어를 사용할 수 있습니다:\n• API 호출\n• S3 버킷 목록\n• DynamoDB 조회\n• 도움말",
	}
}

// Rephrase asks the user to restate a request the AI was unsure about
func Rephrase(actionName string) models.Response {
	if actionName == "" {
		actionName = "알 수 없음"
	}
	return models.Response{
		Text: fmt.Sprintf("요청을 정확히 이해하지 못했습니다. 다시 말씀해 주시겠어요?\n\n이해한 내용: %s", actionName),
	}
}

// GenericError is the last-resort reply when processing fails
func GenericError(err error) models.Response {
	return models.Response{Text: fmt.Sprintf("죄송합니다. 오류가 발생했습니다: %v", err)}
}

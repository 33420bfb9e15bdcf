package service

import (
	"context"
	"testing"

	"github.com/fradegh/ai-sales-sub002/internal/config"
	"github.com/fradegh/ai-sales-sub002/internal/model"
)

// An unconfigured service uses the rule-based fallback
func newRuleOnlyChecker() *SelfCheckService {
	return NewSelfCheckService(&config.AIConfig{TimeoutMS: 1000})
}

func TestSelfCheck_EmptyReplyNeedsHandoff(t *testing.T) {
	svc := newRuleOnlyChecker()

	result := svc.Check(context.Background(), SelfCheckRequest{
		CustomerText: "Сколько стоит доставка?",
		Reply:        "   ",
	})

	if !result.NeedHandoff {
		t.Error("empty reply must need handoff")
	}
	if result.Score != 0 {
		t.Errorf("score = %v, want 0", result.Score)
	}
	if len(result.Reasons) == 0 {
		t.Error("expected a reason for the handoff")
	}
}

func TestSelfCheck_NumberAbsentFromSourcesNeedsHandoff(t *testing.T) {
	svc := newRuleOnlyChecker()

	result := svc.Check(context.Background(), SelfCheckRequest{
		CustomerText: "Сколько стоит?",
		Reply:        "Стоимость составляет 2500 рублей",
		Sources: []model.UsedSource{
			{Quote: "Цена товара 1500 рублей"},
		},
	})

	if !result.NeedHandoff {
		t.Error("a price absent from sources must need handoff")
	}
}

func TestSelfCheck_NumberPresentInSourcesPasses(t *testing.T) {
	svc := newRuleOnlyChecker()

	result := svc.Check(context.Background(), SelfCheckRequest{
		CustomerText: "Сколько стоит?",
		Reply:        "Стоимость составляет 1500 рублей",
		Sources: []model.UsedSource{
			{Quote: "Цена товара 1500 рублей"},
		},
	})

	if result.NeedHandoff {
		t.Errorf("price present in sources must pass, got reasons %v", result.Reasons)
	}
	if result.Score != 0.9 {
		t.Errorf("score = %v, want 0.9", result.Score)
	}
}

func TestSelfCheck_SpacedNumberMatchesSources(t *testing.T) {
	svc := newRuleOnlyChecker()

	result := svc.Check(context.Background(), SelfCheckRequest{
		Reply: "Цена 12 500 рублей",
		Sources: []model.UsedSource{
			{Quote: "Стоимость: 12500 руб."},
		},
	})

	if result.NeedHandoff {
		t.Errorf("digit grouping must not trigger a false handoff, got reasons %v", result.Reasons)
	}
}

func TestSelfCheck_ReplyWithoutNumbersPasses(t *testing.T) {
	svc := newRuleOnlyChecker()

	result := svc.Check(context.Background(), SelfCheckRequest{
		Reply:   "Добрый день! Доставка занимает два дня.",
		Sources: []model.UsedSource{{Quote: "Доставка 1-3 дня"}},
	})

	if result.NeedHandoff {
		t.Errorf("reply without figures must pass, got reasons %v", result.Reasons)
	}
}

func TestDegradedSelfCheck_IsConservative(t *testing.T) {
	result := model.DegradedSelfCheck("проверка недоступна")

	if !result.NeedHandoff {
		t.Error("degraded verdict must need handoff")
	}
	if result.Score >= 0.5 {
		t.Errorf("degraded score = %v, must stay below 0.5", result.Score)
	}
	if len(result.Reasons) != 1 {
		t.Errorf("expected the degrade reason to be recorded, got %v", result.Reasons)
	}
}

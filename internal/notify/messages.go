package notify

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
)

func orderLink(id uuid.UUID) string   { return "/orders/" + id.String() }
func projectLink(id uuid.UUID) string { return "/projects/" + id.String() }

func toBoth(o *entity.Order, kind Kind, title, body string) []Message {
	return []Message{
		{UserID: o.ClientID, Kind: kind, Title: title, Body: body, Link: orderLink(o.ID)},
		{UserID: o.FreelancerID, Kind: kind, Title: title, Body: body, Link: orderLink(o.ID)},
	}
}

func BidPlaced(p *entity.Project, b *entity.Bid) Message {
	return Message{
		UserID: p.ClientID,
		Kind:   KindBidPlaced,
		Title:  "Новая ставка на проект",
		Body:   fmt.Sprintf("«%s»: ставка %.2f %s, срок %d дн.", p.Title, b.Amount, b.Currency, b.DeliveryDays),
		Link:   projectLink(p.ID),
	}
}

func BidAccepted(p *entity.Project, o *entity.Order) Message {
	return Message{
		UserID: o.FreelancerID,
		Kind:   KindBidAccepted,
		Title:  "Ваша ставка выбрана",
		Body:   fmt.Sprintf("Клиент выбрал вас исполнителем проекта «%s». Ваш доход: %.2f %s.", p.Title, o.FreelancerEarnings, o.Currency),
		Link:   orderLink(o.ID),
	}
}

func BidRejected(p *entity.Project, b *entity.Bid) Message {
	return Message{
		UserID: b.FreelancerID,
		Kind:   KindBidRejected,
		Title:  "Ставка отклонена",
		Body:   fmt.Sprintf("По проекту «%s» выбран другой исполнитель.", p.Title),
		Link:   projectLink(p.ID),
	}
}

func ProjectClosed(p *entity.Project, b *entity.Bid) Message {
	return Message{
		UserID: b.FreelancerID,
		Kind:   KindProjectClosed,
		Title:  "Проект закрыт",
		Body:   fmt.Sprintf("Клиент закрыл проект «%s» без выбора исполнителя.", p.Title),
		Link:   projectLink(p.ID),
	}
}

func OrderCreated(o *entity.Order) []Message {
	body := fmt.Sprintf("Заказ «%s» на %.2f %s создан.", o.Title, o.Amount, o.Currency)
	if o.Status == valueobject.OrderStatusPending {
		body += " Ожидается подтверждение оплаты."
	}
	return toBoth(o, KindOrderCreated, "Заказ создан", body)
}

func OrderActivated(o *entity.Order) []Message {
	return toBoth(o, KindOrderActivated, "Оплата подтверждена",
		fmt.Sprintf("Средства по заказу «%s» зарезервированы, можно приступать к работе.", o.Title))
}

func OrderDelivered(o *entity.Order) Message {
	return Message{
		UserID: o.ClientID,
		Kind:   KindOrderDelivered,
		Title:  "Работа сдана",
		Body:   fmt.Sprintf("Исполнитель сдал работу по заказу «%s». Проверьте и примите её.", o.Title),
		Link:   orderLink(o.ID),
	}
}

func RevisionRequested(o *entity.Order) Message {
	return Message{
		UserID: o.FreelancerID,
		Kind:   KindRevisionRequested,
		Title:  "Нужна доработка",
		Body:   fmt.Sprintf("Клиент вернул заказ «%s» на доработку.", o.Title),
		Link:   orderLink(o.ID),
	}
}

func OrderCompleted(o *entity.Order) []Message {
	return toBoth(o, KindOrderCompleted, "Заказ завершён",
		fmt.Sprintf("Заказ «%s» принят. Исполнителю начислено %.2f %s.", o.Title, o.FreelancerEarnings, o.Currency))
}

func OrderCancelled(o *entity.Order, reason string) []Message {
	return toBoth(o, KindOrderCancelled, "Заказ отменён",
		fmt.Sprintf("Заказ «%s» отменён: %s. Средства возвращены клиенту.", o.Title, reason))
}

func MilestonesCreated(o *entity.Order, count int) Message {
	return Message{
		UserID: o.FreelancerID,
		Kind:   KindMilestonesCreated,
		Title:  "План этапов утверждён",
		Body:   fmt.Sprintf("Заказ «%s» разбит на %d этап(ов). Первый этап уже в работе.", o.Title, count),
		Link:   orderLink(o.ID),
	}
}

func MilestoneDelivered(o *entity.Order, m *entity.Milestone) Message {
	return Message{
		UserID: o.ClientID,
		Kind:   KindMilestoneDelivered,
		Title:  "Этап сдан",
		Body:   fmt.Sprintf("Этап «%s» по заказу «%s» ждёт вашей проверки.", m.Title, o.Title),
		Link:   orderLink(o.ID),
	}
}

// MilestoneApproved при завершении заказа уведомляет обе стороны о закрытии,
// иначе только исполнителя о принятом этапе.
func MilestoneApproved(o *entity.Order, m *entity.Milestone, payout float64, orderCompleted bool) []Message {
	msgs := []Message{{
		UserID: o.FreelancerID,
		Kind:   KindMilestoneApproved,
		Title:  "Этап принят",
		Body:   fmt.Sprintf("Этап «%s» принят, к выплате %.2f %s.", m.Title, payout, o.Currency),
		Link:   orderLink(o.ID),
	}}
	if orderCompleted {
		msgs = append(msgs, OrderCompleted(o)...)
	}
	return msgs
}

func DisputeOpened(o *entity.Order, d *entity.Dispute) []Message {
	return toBoth(o, KindDisputeOpened, "Открыт спор",
		fmt.Sprintf("По заказу «%s» открыт спор: %s. Работа по заказу приостановлена.", o.Title, d.Reason))
}

func DisputeResolved(o *entity.Order, d *entity.Dispute) []Message {
	resolution := ""
	if d.Resolution != nil {
		resolution = ResolutionTitle(*d.Resolution)
	}
	return toBoth(o, KindDisputeResolved, "Спор разрешён",
		fmt.Sprintf("Решение по заказу «%s»: %s.", o.Title, resolution))
}

func DisputeWithdrawn(o *entity.Order, d *entity.Dispute) []Message {
	return toBoth(o, KindDisputeWithdrawn, "Спор отозван",
		fmt.Sprintf("Спор по заказу «%s» отозван, работа продолжается.", o.Title))
}

func ResolutionTitle(r valueobject.DisputeResolution) string {
	switch r {
	case valueobject.ResolutionFullRefund:
		return "полный возврат средств клиенту"
	case valueobject.ResolutionPartialRefund:
		return "частичный возврат средств клиенту"
	case valueobject.ResolutionReleaseToFreelancer:
		return "средства переведены исполнителю"
	case valueobject.ResolutionMutualCancellation:
		return "отмена по соглашению сторон"
	}
	return string(r)
}

// OnlyFor оставляет сообщения одного получателя.
func OnlyFor(userID uuid.UUID, msgs []Message) []Message {
	var out []Message
	for _, m := range msgs {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out
}

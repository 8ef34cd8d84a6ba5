package engine

import (
	"errors"
	"fmt"
	"replenish-app/config"
	"replenish-app/controllers/idgen"
	"replenish-app/models"
	"replenish-app/types"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderRequest is one finalized queue item to convert into an order.
// FinalQuantity overrides the recommendation when set.
type OrderRequest struct {
	QueueID        types.SnowflakeID `json:"queue_id" validate:"required"`
	FinalQuantity  *int              `json:"final_quantity"`
	OverrideReason string            `json:"override_reason"`
}

// OrderPipelineCreator converts queue items into pipeline orders and
// keeps the buffer's in-pipeline quantity consistent.
type OrderPipelineCreator struct {
	DB     *gorm.DB
	Config config.PlanningConfig
	Log    *logrus.Logger
}

func NewOrderPipelineCreator(db *gorm.DB) *OrderPipelineCreator {
	return &OrderPipelineCreator{DB: db, Config: config.Planning, Log: config.GetLogger()}
}

// CreateOrders processes a batch of finalized queue items. Validation
// failures are recorded per item and the batch continues. Re-delivery
// of an already processed queue id returns its existing order (no new
// mutation).
func (p *OrderPipelineCreator) CreateOrders(reqs []OrderRequest, userID int) ([]models.InventoryOrderPipeline, *BatchResult) {
	result := &BatchResult{}
	orders := make([]models.InventoryOrderPipeline, 0, len(reqs))

	for _, req := range reqs {
		key := fmt.Sprint(req.QueueID)
		order, err := p.createOne(req, userID)
		if err != nil {
			config.LogError(p.Log, "pipeline", "CreateOrders", key, nil, err)
			result.AddError(key, err)
			continue
		}
		orders = append(orders, *order)
		result.AddSuccess()
	}

	p.Log.WithFields(logrus.Fields{
		"module":    "pipeline",
		"processed": result.Processed,
		"failed":    result.Failed,
	}).Info("order creation batch finished")

	return orders, result
}

func (p *OrderPipelineCreator) createOne(req OrderRequest, userID int) (*models.InventoryOrderPipeline, error) {
	var item models.ReplenishmentQueueItem
	if err := p.DB.First(&item, "id = ?", req.QueueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "queue item", Key: fmt.Sprint(req.QueueID)}
		}
		return nil, err
	}

	unlock := LockBuffer(item.BufferID)
	defer unlock()

	// re-read under the lock: a concurrent request for the same queue id
	// may have processed it while we waited
	if err := p.DB.First(&item, "id = ?", req.QueueID).Error; err != nil {
		return nil, err
	}

	switch item.Status {
	case models.QueueProcessed:
		// at-least-once scheduler re-delivery: hand back the order that
		// was already created for this queue id
		if item.OrderID != 0 {
			var existing models.InventoryOrderPipeline
			if err := p.DB.First(&existing, "id = ?", item.OrderID).Error; err == nil {
				return &existing, nil
			}
		}
		return nil, &ConflictError{Entity: "queue item", Key: fmt.Sprint(req.QueueID),
			Reason: "already processed"}
	case models.QueueCancelled:
		return nil, &ConflictError{Entity: "queue item", Key: fmt.Sprint(req.QueueID),
			Reason: "cancelled"}
	}

	var buf models.InventoryBuffer
	if err := p.DB.First(&buf, item.BufferID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "buffer", Key: fmt.Sprint(item.BufferID)}
		}
		return nil, err
	}

	var location models.Location
	if err := p.DB.Where("location_code = ?", item.LocationCode).First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "location", Key: item.LocationCode}
		}
		return nil, err
	}

	// supplying party: the lead-time record names the supplier
	var leadTime models.ProductLeadTime
	if err := p.DB.Where("product_code = ? AND location_code = ?", item.ProductCode, item.LocationCode).
		First(&leadTime).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "lead time", Key: item.ProductCode + "/" + item.LocationCode}
		}
		return nil, err
	}
	var supplier models.Supplier
	if err := p.DB.Where("supplier_code = ?", leadTime.SupplierCode).First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "supplier", Key: leadTime.SupplierCode}
		}
		return nil, err
	}

	finalQty := item.RecommendedQty
	if req.FinalQuantity != nil {
		finalQty = *req.FinalQuantity
	}
	if finalQty <= 0 {
		return nil, &ValidationError{Field: "final_quantity", Reason: "must be positive"}
	}

	orderID := types.SnowflakeID(idgen.GenerateID())
	order := models.InventoryOrderPipeline{
		ID:           orderID,
		OrderNo:      fmt.Sprintf("RO-%d", orderID),
		QueueItemID:  item.ID,
		BufferID:     buf.ID,
		ProductCode:  item.ProductCode,
		LocationCode: item.LocationCode,
		SupplierCode: supplier.SupplierCode,
		OrderedQty:   finalQty,
		PendingQty:   finalQty,
		Status:       models.OrderDraft,
		CreatedBy:    userID,
	}

	err := p.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if finalQty != item.RecommendedQty {
			override := models.ReplenishmentOverrideLog{
				QueueItemID:   item.ID,
				OrderID:       order.ID,
				ProductCode:   item.ProductCode,
				LocationCode:  item.LocationCode,
				OriginalQty:   item.RecommendedQty,
				OverriddenQty: finalQty,
				Reason:        req.OverrideReason,
				ApprovedBy:    userID,
			}
			if err := tx.Create(&override).Error; err != nil {
				return err
			}
		}

		buf.InPipelineQty += finalQty
		if err := tx.Save(&buf).Error; err != nil {
			return err
		}

		item.Status = models.QueueProcessed
		item.OrderID = order.ID
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// ApproveOrders moves DRAFT orders to PROCESSED, one or many. An empty
// id list with all=true approves every pending draft.
func (p *OrderPipelineCreator) ApproveOrders(ids []types.SnowflakeID, all bool, userID int, now time.Time) *BatchResult {
	result := &BatchResult{}

	var drafts []models.InventoryOrderPipeline
	query := p.DB.Where("status = ?", models.OrderDraft)
	if !all {
		if len(ids) == 0 {
			result.AddError("orders", &ValidationError{Field: "order_ids", Reason: "required unless all=true"})
			return result
		}
		query = query.Where("id IN ?", ids)
	}
	if err := query.Find(&drafts).Error; err != nil {
		result.AddError("orders", err)
		return result
	}

	found := make(map[types.SnowflakeID]bool, len(drafts))
	for i := range drafts {
		order := drafts[i]
		found[order.ID] = true

		order.Status = models.OrderProcessed
		order.ApprovedBy = userID
		order.ApprovedAt = &now
		order.UpdatedBy = userID
		if err := p.DB.Save(&order).Error; err != nil {
			result.AddError(fmt.Sprint(order.ID), err)
			continue
		}
		result.AddSuccess()
	}

	for _, id := range ids {
		if !found[id] {
			result.AddError(fmt.Sprint(id), &NotFoundError{Entity: "draft order", Key: fmt.Sprint(id)})
		}
	}

	return result
}

// RecordReceipt confirms actual receipt of a PROCESSED order: sets the
// received and pending quantities and moves the goods from the pipeline
// into on-hand inventory.
func (p *OrderPipelineCreator) RecordReceipt(orderID types.SnowflakeID, receivedQty, userID int, now time.Time) (*models.InventoryOrderPipeline, error) {
	if receivedQty < 0 {
		return nil, &ValidationError{Field: "received_qty", Reason: "must not be negative"}
	}

	var order models.InventoryOrderPipeline
	if err := p.DB.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", Key: fmt.Sprint(orderID)}
		}
		return nil, err
	}
	if order.Status != models.OrderProcessed {
		return nil, &ConflictError{Entity: "order", Key: fmt.Sprint(orderID),
			Reason: "not in PROCESSED status"}
	}

	unlock := LockBuffer(order.BufferID)
	defer unlock()

	var buf models.InventoryBuffer
	if err := p.DB.First(&buf, order.BufferID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "buffer", Key: fmt.Sprint(order.BufferID)}
		}
		return nil, err
	}

	order.ReceivedQty = receivedQty
	order.PendingQty = order.OrderedQty - receivedQty
	if order.PendingQty < 0 {
		order.PendingQty = 0
	}
	order.Status = models.OrderReceived
	order.ReceivedAt = &now
	order.UpdatedBy = userID

	err := p.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		buf.CurrentInventory += receivedQty
		buf.InPipelineQty -= order.OrderedQty
		if buf.InPipelineQty < 0 {
			buf.InPipelineQty = 0
		}
		return tx.Save(&buf).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// CancelOrder fails a not-yet-received order, cancels its queue item
// and releases the pipeline quantity.
func (p *OrderPipelineCreator) CancelOrder(orderID types.SnowflakeID, userID int) error {
	var order models.InventoryOrderPipeline
	if err := p.DB.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "order", Key: fmt.Sprint(orderID)}
		}
		return err
	}
	if order.Status == models.OrderReceived || order.Status == models.OrderFailed {
		return &ConflictError{Entity: "order", Key: fmt.Sprint(orderID),
			Reason: "already " + order.Status}
	}

	unlock := LockBuffer(order.BufferID)
	defer unlock()

	var buf models.InventoryBuffer
	if err := p.DB.First(&buf, order.BufferID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "buffer", Key: fmt.Sprint(order.BufferID)}
		}
		return err
	}

	return p.DB.Transaction(func(tx *gorm.DB) error {
		order.Status = models.OrderFailed
		order.UpdatedBy = userID
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		buf.InPipelineQty -= order.OrderedQty
		if buf.InPipelineQty < 0 {
			buf.InPipelineQty = 0
		}
		if err := tx.Save(&buf).Error; err != nil {
			return err
		}

		return tx.Model(&models.ReplenishmentQueueItem{}).
			Where("id = ? AND status = ?", order.QueueItemID, models.QueueProcessed).
			Updates(map[string]interface{}{
				"status":       models.QueueCancelled,
				"reason_codes": gorm.Expr("CONCAT(reason_codes, ?)", ","+models.ReasonOrderCancelled),
			}).Error
	})
}
